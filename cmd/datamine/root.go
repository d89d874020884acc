package main

import (
	"github.com/spf13/cobra"

	"datamine/internal/services"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "datamine <path> <scenario>",
		Short:         "Extract and render game data into a diffable tree",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if _, err := ctx.ensureConfig(); err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, ctx, args[0], args[1], flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().BoolVar(&flags.force, "force", false, "Process every source even when the build is unchanged")
	rootCmd.Flags().BoolVar(&flags.client, "client", false, "Use the client app instead of the dedicated server")
	rootCmd.Flags().BoolVar(&flags.noSteam, "nosteam", false, "Skip the SteamCMD update and use the installed files")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
