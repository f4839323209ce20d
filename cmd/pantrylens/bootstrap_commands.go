package main

import (
	"github.com/spf13/cobra"

	"github.com/pantrylens/enricher/config"
	"github.com/pantrylens/enricher/internal/infrastructure/grocy"
	"github.com/pantrylens/enricher/internal/usecase"
)

func newImportCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Import products from a CSV file into the inventory backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			inventory := grocy.NewClient(cfg.Inventory.APIKey, cfg.Inventory.BaseURL, cfg.Inventory.Timeout)
			return usecase.NewBootstrapService(inventory).ImportProducts(cmd.Context(), args[0])
		},
	}
}

func newDueDatesCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "due-dates <csv>",
		Short: "Update product due dates from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			inventory := grocy.NewClient(cfg.Inventory.APIKey, cfg.Inventory.BaseURL, cfg.Inventory.Timeout)
			return usecase.NewBootstrapService(inventory).UpdateDueDates(cmd.Context(), args[0])
		},
	}
}
