package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pantrylens/enricher/config"
	"github.com/pantrylens/enricher/internal/domain"
	"github.com/pantrylens/enricher/internal/infrastructure/grocy"
	"github.com/pantrylens/enricher/internal/infrastructure/ledger"
	"github.com/pantrylens/enricher/internal/infrastructure/openfoodfacts"
	"github.com/pantrylens/enricher/internal/prompt"
	"github.com/pantrylens/enricher/internal/usecase"
)

func newEnrichCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var yesFlag bool
	var ledgerFlag string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich all known barcodes from the open product databases",
		Long: "Iterates every barcode known to the inventory backend, fills in barcode\n" +
			"metadata, calories per stock unit and product imagery from OpenFoodFacts\n" +
			"(falling back to OpenBeautyFacts), and records each attempted barcode in\n" +
			"a durable ledger so it is attempted at most once across runs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if ledgerFlag != "" {
				cfg.Ledger.Path = ledgerFlag
			}
			return runEnrich(cmd, cfg, yesFlag)
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Add derived unit conversions without asking")
	cmd.Flags().StringVar(&ledgerFlag, "ledger", "", "Path of the processed-barcode ledger")

	return cmd
}

func runEnrich(cmd *cobra.Command, cfg *config.Config, autoConfirm bool) error {
	ctx := cmd.Context()

	inventory := grocy.NewClient(cfg.Inventory.APIKey, cfg.Inventory.BaseURL, cfg.Inventory.Timeout)
	facts := openfoodfacts.NewClient(
		cfg.Facts.PrimaryURL,
		cfg.Facts.SecondaryURL,
		cfg.Facts.RequestsPerSecond,
		cfg.Facts.Burst,
		cfg.Facts.Timeout,
	)

	units, err := inventory.ListQuantityUnits(ctx)
	if err != nil {
		return fmt.Errorf("failed to list quantity units: %w", err)
	}
	table, err := domain.NewUnitTable(units, domain.UnitNames{
		Gram:       cfg.Units.Gram,
		Kilogram:   cfg.Units.Kilogram,
		Milliliter: cfg.Units.Milliliter,
		Liter:      cfg.Units.Liter,
	})
	if err != nil {
		return err
	}

	barcodeLedger, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer barcodeLedger.Close()
	log.Printf("[enrich] ledger %s holds %d processed barcodes", cfg.Ledger.Path, barcodeLedger.Size())

	confirm := prompt.Terminal(os.Stdin, cmd.OutOrStdout())
	if autoConfirm {
		confirm = prompt.AlwaysYes()
	}
	ask := cfg.Enrich.ConfirmConversions && !autoConfirm

	resolver := usecase.NewConversionResolver(inventory, table, confirm, ask)
	service := usecase.NewEnrichmentService(inventory, facts, resolver, barcodeLedger)

	outcomes, err := service.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderOutcomes(outcomes))
	return nil
}

func renderOutcomes(outcomes []usecase.Outcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		detail := strings.Join(outcome.Skipped, "; ")
		if outcome.Err != nil {
			detail = outcome.Err.Error()
		}
		rows = append(rows, []string{
			outcome.Barcode,
			outcome.Status.String(),
			outcome.Product,
			detail,
		})
	}
	return renderTable([]string{"Barcode", "Status", "Product", "Detail"}, rows)
}
