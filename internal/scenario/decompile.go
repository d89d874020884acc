package scenario

import (
	"context"
	"path/filepath"
	"time"

	"datamine/internal/decompile"
	"datamine/internal/gamestatus"
	"datamine/internal/logging"
	"datamine/internal/manifest"
	"datamine/internal/pipeline"
	"datamine/internal/services"
	"datamine/internal/unityversion"
)

const (
	econBinaryFile = "EconInfo.bin"
	econJSONFile   = "EconInfo.json"
)

// DataDir returns the Unity data directory name for the selected build.
func DataDir(client bool) string {
	if client {
		return "Unturned_Data"
	}
	return "Unturned_Headless_Data"
}

type decompileScenario struct{}

func (decompileScenario) Name() string { return "decompile" }

func (decompileScenario) Prepare(ctx context.Context, env Env, opts Options) (Plan, error) {
	cfg := env.Config
	appID := cfg.AppID(opts.Client)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(env.logger(), "scenario"))

	if opts.NoSteam {
		logger.Info("skipping game update", logging.String("reason", "--nosteam"))
	} else {
		if env.Updater == nil {
			return Plan{}, services.Wrap(services.ErrConfiguration, "decompile", "update", "no updater configured", nil)
		}
		if err := env.Updater.Update(ctx, opts.Root, appID); err != nil {
			return Plan{}, err
		}
	}

	buildID, err := manifest.BuildID(manifest.AppManifestPath(opts.Root, appID))
	if err != nil {
		return Plan{}, err
	}

	dataDir := filepath.Join(opts.Root, DataDir(opts.Client))
	sources := []pipeline.Source{
		fileSource{name: "econ", path: filepath.Join(opts.Root, econBinaryFile), decode: decodeEcon},
		fileSource{name: "econ_json", path: filepath.Join(opts.Root, econJSONFile), decode: decodeEconJSON},
		fileSource{name: "unity_version", path: unityversion.Path(dataDir), decode: decodeUnityVersion},
	}
	if len(cfg.Decompiler.Modules) > 0 {
		if env.Decompiler == nil {
			return Plan{}, services.Wrap(services.ErrConfiguration, "decompile", "prepare", "no decompiler configured", nil)
		}
		managed := filepath.Join(dataDir, "Managed")
		for _, name := range cfg.Decompiler.Modules {
			sources = append(sources, moduleSource{
				module: decompile.Module{
					Name:     name,
					Assembly: filepath.Join(managed, name+".dll"),
					RefDirs:  []string{managed},
				},
				decompiler: env.Decompiler,
				workers:    cfg.Workflow.Workers,
				logger:     env.logger(),
			})
		}
	}

	return Plan{
		BuildID: buildID,
		Sources: sources,
		Headline: func(pipeline.Summary) (string, error) {
			return versionHeadline(env.now(), opts.Root, buildID)
		},
	}, nil
}

// versionHeadline reads Status.json at root, e.g.
// "18 October 2026 - Version 3.24.7.3 (18372615)".
func versionHeadline(now time.Time, root, buildID string) (string, error) {
	version, err := gamestatus.Read(gamestatus.Path(root))
	if err != nil {
		return "", err
	}
	return now.Format(dateLayout) + " - Version " + version.String() + " (" + buildID + ")", nil
}
