package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"datamine/internal/history"
	"datamine/internal/pipeline"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				outcomes, err := store.Outcomes(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if len(outcomes) == 0 {
					return fmt.Errorf("run %s not found", runID)
				}
				fmt.Fprint(out, renderOutcomes(runID, outcomes))
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprint(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show per-source outcomes of one run")
	return cmd
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.RunID,
			run.Scenario,
			run.BuildID,
			yesNo(run.BuildSkipped),
			strconv.Itoa(run.Count(string(pipeline.StateDone))),
			strconv.Itoa(run.Count(string(pipeline.StateFailed))),
			run.Headline,
		})
	}
	return renderTable("",
		[]string{"Started", "Run", "Scenario", "Build", "Gated", "Changed", "Failed", "Headline"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func renderOutcomes(runID string, outcomes []history.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{
			o.Source,
			o.State,
			strconv.Itoa(o.ArtifactCount),
			shortDigest(o.Digest),
			formatDuration(o.Duration),
			o.ErrorKind,
		})
	}
	return renderTable("run "+runID,
		[]string{"Source", "State", "Written", "Digest", "Duration", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
	)
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
