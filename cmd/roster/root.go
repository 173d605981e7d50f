package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	apiURL     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "roster",
		Short:         "Roster manages the student collection of a Simply Schools API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a subcommand, launch the dashboard
			if len(args) == 0 {
				return runDashboard(cmd, flags)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default ~/.roster/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Base URL of the student API, overriding the config")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newDashboardCmd(flags))
	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newAddCmd(flags))
	cmd.AddCommand(newEditCmd(flags))
	cmd.AddCommand(newRemoveCmd(flags))
	cmd.AddCommand(newThemeCmd(flags))
	cmd.AddCommand(newDevServerCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
