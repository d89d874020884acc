package scenario

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"datamine/internal/config"
	"datamine/internal/decompile"
	"datamine/internal/fileutil"
	"datamine/internal/fingerprint"
	"datamine/internal/logging"
	"datamine/internal/pipeline"
	"datamine/internal/services"
)

// CommitFile receives the commit message at the root.
const CommitFile = ".commit"

// dateLayout renders dates as "18 October 2026".
const dateLayout = "02 January 2006"

// Fetcher retrieves upstream documents.
type Fetcher interface {
	Bytes(ctx context.Context, url string) ([]byte, error)
	FirstOf(ctx context.Context, urls []string) ([]byte, string, error)
}

// Updater brings the game install at root up to date.
type Updater interface {
	Update(ctx context.Context, root string, appID int) error
}

// Env carries the collaborators scenarios use.
type Env struct {
	Config     *config.Config
	Logger     *slog.Logger
	Fetcher    Fetcher
	Updater    Updater
	Decompiler decompile.Decompiler
	Now        func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}

// Options are the per-invocation flags.
type Options struct {
	Root    string
	Force   bool
	Client  bool
	NoSteam bool
}

// Plan is a prepared scenario.
type Plan struct {
	BuildID string
	Sources []pipeline.Source
	// Headline phrases the commit headline once the outcomes are known.
	Headline func(pipeline.Summary) (string, error)
}

// Scenario prepares a plan for one invocation.
type Scenario interface {
	Name() string
	Prepare(ctx context.Context, env Env, opts Options) (Plan, error)
}

var registry = map[string]Scenario{
	"decompile": decompileScenario{},
	"websites":  websitesScenario{},
}

// Names returns the registered scenario names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the scenario registered under name, ignoring case.
func Lookup(name string) (Scenario, error) {
	sc, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "scenario", "lookup",
			"unknown scenario "+name+" (expected one of "+strings.Join(Names(), ", ")+")", nil)
	}
	return sc, nil
}

// Run prepares and executes the named scenario. Errors returned here are
// scenario-level: unknown names, update client failures, and missing build
// manifests. Per-source failures are reported in the summary.
func Run(ctx context.Context, env Env, name string, opts Options) (pipeline.Summary, error) {
	sc, err := Lookup(name)
	if err != nil {
		return pipeline.Summary{}, err
	}
	if env.Config == nil {
		return pipeline.Summary{}, services.Wrap(services.ErrConfiguration, "scenario", "run", "config required", nil)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return pipeline.Summary{}, services.Wrap(services.ErrConfiguration, "scenario", "run", "resolve root", err)
	}
	opts.Root = root

	rc := pipeline.NewRunContext(sc.Name(), opts.Force)
	ctx = rc.Context(ctx)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(env.logger(), "scenario"))

	plan, err := sc.Prepare(ctx, env, opts)
	if err != nil {
		return pipeline.Summary{}, err
	}
	rc.BuildID = plan.BuildID
	logger.Info("scenario prepared",
		logging.String("root", root),
		logging.String("build_id", plan.BuildID),
		logging.Int("sources", len(plan.Sources)),
		logging.Bool("force", opts.Force),
	)

	tracker := fingerprint.New(root, env.logger())
	coord := pipeline.NewCoordinator(tracker, env.Config.Workflow.Workers, env.logger())
	summary, err := coord.Run(ctx, rc, plan.Sources)
	if err != nil {
		return summary, err
	}
	if !summary.HasChanges() {
		logger.Info("nothing changed", logging.String(logging.FieldEventType, "run_unchanged"))
		return summary, nil
	}

	if plan.Headline != nil {
		headline, err := plan.Headline(summary)
		if err != nil {
			logging.WarnWithContext(logger, "commit headline unavailable", "commit_headline",
				logging.ErrorKind(err),
				logging.Error(err),
				logging.String(logging.FieldImpact, "commit message falls back to the date"),
			)
			headline = env.now().Format(dateLayout) + " - Updated"
		}
		summary.Headline = headline
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(root, CommitFile), []byte(summary.Message()), 0o644); err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "scenario", "commit", "write "+CommitFile, err)
	}
	logger.Info("commit message written",
		logging.String(logging.FieldEventType, "commit_written"),
		logging.String("headline", summary.Headline),
		logging.Int("changed", len(summary.Changed())),
	)
	return summary, nil
}
