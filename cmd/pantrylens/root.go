package main

import (
	"github.com/spf13/cobra"

	"github.com/pantrylens/enricher/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "pantrylens",
		Short:         "Enrich a home inventory from the open product databases",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	loadConfig := func() (*config.Config, error) {
		return config.Load(configFlag)
	}

	rootCmd.AddCommand(newEnrichCommand(loadConfig))
	rootCmd.AddCommand(newImportCommand(loadConfig))
	rootCmd.AddCommand(newDueDatesCommand(loadConfig))

	return rootCmd
}
