package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"datamine/internal/config"
	"datamine/internal/decompile"
	"datamine/internal/fetch"
	"datamine/internal/history"
	"datamine/internal/logging"
	"datamine/internal/pipeline"
	"datamine/internal/preflight"
	"datamine/internal/runlock"
	"datamine/internal/scenario"
	"datamine/internal/services"
)

type runFlags struct {
	force   bool
	client  bool
	noSteam bool
}

func runScenario(cmd *cobra.Command, ctx *commandContext, rootArg, name string, flags runFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if _, err := scenario.Lookup(name); err != nil {
		return err
	}
	root, err := config.ExpandPath(rootArg)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "cli", "resolve root", rootArg, err)
	}
	if err := preflight.CheckRoot(root); err != nil {
		return err
	}

	logger, logPath, err := logging.NewFromConfig(cfg, time.Now())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "datamine-*.log", Exclude: []string{logPath}},
	)

	lock, err := runlock.Acquire(root)
	if err != nil {
		return err
	}
	defer lock.Release()

	fetcher := fetch.NewClient(cfg, logger)
	env := scenario.Env{
		Config:     cfg,
		Logger:     logger,
		Fetcher:    fetcher,
		Updater:    scenario.NewSteamUpdater(cfg, fetcher, logger),
		Decompiler: decompile.NewILSpy(cfg.Decompiler.Binary, cfg.DecompilerTimeout(), nil),
	}
	summary, err := scenario.Run(cmd.Context(), env, name, scenario.Options{
		Root:    root,
		Force:   flags.force,
		Client:  flags.client,
		NoSteam: flags.noSteam,
	})
	if err != nil {
		logging.ErrorWithContext(logger, "scenario failed", "scenario_failed",
			logging.String(logging.FieldScenario, name),
			logging.ErrorKind(err),
			logging.Error(err),
		)
		return err
	}

	recordHistory(cmd.Context(), cfg, summary, logger)
	fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary, shouldColorize(cmd.OutOrStdout())))
	return nil
}

// recordHistory stores the run. Failures are logged and never fail the run.
func recordHistory(ctx context.Context, cfg *config.Config, summary pipeline.Summary, logger *slog.Logger) {
	if !cfg.History.Enabled {
		return
	}
	warn := func(msg string, err error) {
		logging.WarnWithContext(logger, msg, "history_unavailable",
			logging.ErrorKind(err),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded in history"),
		)
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		warn("open run history", err)
		return
	}
	defer store.Close()
	if err := store.RecordRun(ctx, scenario.ToHistory(summary)); err != nil {
		warn("record run history", err)
		return
	}
	if days := cfg.History.RetentionDays; days > 0 {
		if _, err := store.Prune(ctx, time.Now().AddDate(0, 0, -days)); err != nil {
			warn("prune run history", err)
		}
	}
}
