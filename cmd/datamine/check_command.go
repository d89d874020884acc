package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"datamine/internal/config"
	"datamine/internal/preflight"
	"datamine/internal/scenario"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var scenarioName string

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Run preflight checks for a root and scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if _, err := scenario.Lookup(scenarioName); err != nil {
				return err
			}
			var root string
			if len(args) == 1 {
				if root, err = config.ExpandPath(args[0]); err != nil {
					return err
				}
			}

			results := preflight.RunAll(cfg, root, scenarioName)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
					failed++
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable("",
				[]string{"Check", "Status", "Detail"}, rows, nil))
			if failed > 0 {
				return errors.New(pluralChecks(failed) + " failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarioName, "scenario", "s", "decompile", "Scenario whose requirements are checked")
	return cmd
}

func pluralChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}
