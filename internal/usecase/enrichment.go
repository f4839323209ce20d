package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/pantrylens/enricher/internal/domain"
)

// Status tags the outcome of one barcode attempt
type Status int

const (
	// StatusDone means the attempt ran to the end; individual features may
	// still have been skipped (see Outcome.Skipped)
	StatusDone Status = iota
	// StatusSkipped means the ledger already contained the barcode and no
	// work was performed
	StatusSkipped
	// StatusFailed means the attempt aborted; the barcode is still recorded
	// as attempted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of processing one barcode. Callers branch on
// Status instead of error types.
type Outcome struct {
	Barcode string
	Status  Status
	Product string
	Skipped []string
	Err     error
}

// EnrichmentService drives the per-barcode enrichment flow: barcode
// metadata, calories normalized to the stock unit, product imagery.
// Single sequential worker; one instance per run.
type EnrichmentService struct {
	inventory domain.InventoryClient
	facts     domain.FactsClient
	resolver  *ConversionResolver
	ledger    domain.Ledger

	// products already enriched during this run; product-level updates are
	// driven by the first of a product's barcodes only
	enriched map[int]struct{}
}

// NewEnrichmentService creates a service scoped to a single run
func NewEnrichmentService(
	inventory domain.InventoryClient,
	facts domain.FactsClient,
	resolver *ConversionResolver,
	ledger domain.Ledger,
) *EnrichmentService {
	return &EnrichmentService{
		inventory: inventory,
		facts:     facts,
		resolver:  resolver,
		ledger:    ledger,
		enriched:  make(map[int]struct{}),
	}
}

// Run enumerates all known barcodes and processes them in listing order.
// Individual failures are logged and reflected in the outcomes; only the
// initial enumeration can fail the run.
func (s *EnrichmentService) Run(ctx context.Context) ([]Outcome, error) {
	records, err := s.inventory.ListBarcodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list barcodes: %w", err)
	}

	outcomes := make([]Outcome, 0, len(records))
	for _, record := range records {
		outcomes = append(outcomes, s.ProcessBarcode(ctx, record.Barcode))
	}
	return outcomes, nil
}

// ProcessBarcode runs one barcode through the state machine. The ledger is
// consulted before any other work and updated exactly once per attempt,
// whether the attempt succeeded, partially succeeded or failed.
func (s *EnrichmentService) ProcessBarcode(ctx context.Context, barcode string) Outcome {
	if s.ledger.Contains(barcode) {
		log.Printf("[enrich] barcode %s already processed", barcode)
		return Outcome{Barcode: barcode, Status: StatusSkipped}
	}

	outcome := s.attempt(ctx, barcode)
	if outcome.Err != nil {
		log.Printf("[enrich] error updating product from barcode %s: %v", barcode, outcome.Err)
	}

	// Recorded regardless of outcome: a failed barcode is not retried on
	// later runs.
	if err := s.ledger.Record(barcode); err != nil {
		log.Printf("[enrich] failed to record barcode %s in ledger: %v", barcode, err)
	}

	return outcome
}

// attempt performs the fetch/update sequence for a barcode not yet ledgered
func (s *EnrichmentService) attempt(ctx context.Context, barcode string) Outcome {
	outcome := Outcome{Barcode: barcode, Status: StatusDone}

	log.Printf("[enrich] updating product using barcode %s ...", barcode)
	details, err := s.inventory.ProductByBarcode(ctx, barcode)
	if err != nil {
		return Outcome{Barcode: barcode, Status: StatusFailed, Err: err}
	}
	outcome.Product = details.Product.Name

	record, err := s.facts.Fetch(ctx, barcode)
	if err != nil {
		return Outcome{Barcode: barcode, Status: StatusFailed, Product: details.Product.Name, Err: err}
	}

	if err := s.updateBarcodeMeta(ctx, details, record, barcode); err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	productID := details.Product.ID
	if _, ok := s.enriched[productID]; ok {
		log.Printf("[enrich] product id %d already enriched this session", productID)
		outcome.Skipped = append(outcome.Skipped, "product already enriched")
		return outcome
	}

	skipped, err := s.updateCalories(ctx, details, record)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}
	if skipped != "" {
		outcome.Skipped = append(outcome.Skipped, skipped)
	}

	skipped, err = s.updateImage(ctx, details, record)
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}
	if skipped != "" {
		outcome.Skipped = append(outcome.Skipped, skipped)
	}

	log.Printf("[enrich] updated product %q using barcode %s", details.Product.Name, barcode)
	s.enriched[productID] = struct{}{}
	return outcome
}

// updateBarcodeMeta fills the matching barcode record's empty fields from
// the external record: the note from the display name, the amount and unit
// from the packaging quantity. Extraction failure is non-fatal; the record
// is written back only when a field actually changed.
func (s *EnrichmentService) updateBarcodeMeta(ctx context.Context, details *domain.ProductDetails, record *domain.FactsRecord, barcode string) error {
	var match *domain.BarcodeRecord
	for i := range details.Barcodes {
		if details.Barcodes[i].Barcode == barcode {
			match = &details.Barcodes[i]
			break
		}
	}
	if match == nil {
		return fmt.Errorf("%w: barcode %s not found in product %q",
			domain.ErrIdentifierMismatch, barcode, details.Product.Name)
	}

	updated := false
	if match.Note == nil && record.Product != nil && record.Product.Name != "" {
		name := record.Product.Name
		match.Note = &name
		updated = true
	}
	if match.Amount == nil {
		amount, unitID, err := ExtractAmountAndUnit(record, s.resolver.units)
		if err != nil {
			log.Printf("[enrich] could not extract amount and unit for barcode %s: %v", barcode, err)
		} else {
			match.Amount = &amount
			match.UnitID = &unitID
			updated = true
		}
	}

	if !updated {
		log.Printf("[enrich] data already present in barcode %s", barcode)
		return nil
	}
	if err := s.inventory.UpdateBarcode(ctx, match); err != nil {
		return err
	}
	log.Printf("[enrich] updated barcode %s for product %q", barcode, details.Product.Name)
	return nil
}

// updateCalories computes calories per stock unit from the external per-100
// value and the product's mass/volume conversion, deriving the conversion
// once when absent. Returns a skip reason when the feature could not be
// applied; only inventory write failures are errors.
func (s *EnrichmentService) updateCalories(ctx context.Context, details *domain.ProductDetails, record *domain.FactsRecord) (string, error) {
	product := &details.Product

	// >1 rather than >0: some instances store a placeholder of 1
	if product.Calories != nil && *product.Calories > 1 {
		log.Printf("[enrich] calories already set for product %q", product.Name)
		return "calories already set", nil
	}

	if record.Product == nil || record.Product.Nutriments.KcalPer100 == nil {
		log.Printf("[enrich] could not get calories for product %q", product.Name)
		return "no calorie data", nil
	}
	kcalPer100 := *record.Product.Nutriments.KcalPer100

	conversion, err := s.resolveOrDerive(ctx, details, record)
	if err != nil {
		log.Printf("[enrich] no usable conversion for product %q: %v", product.Name, err)
		return "no mass or volume conversion", nil
	}
	if conversion == nil {
		return "no mass or volume conversion", nil
	}

	calories := kcalPer100 * conversion.Factor / 100
	if err := s.inventory.UpdateProduct(ctx, product.ID, map[string]any{"calories": calories}); err != nil {
		return "", err
	}
	log.Printf("[enrich] updated calories for product %q", product.Name)
	return "", nil
}

// resolveOrDerive looks up the stock-to-mass/volume conversion, deriving and
// persisting one when absent, then retries the lookup once
func (s *EnrichmentService) resolveOrDerive(ctx context.Context, details *domain.ProductDetails, record *domain.FactsRecord) (*domain.ConversionRule, error) {
	conversion, err := s.resolver.ResolveToMassOrVolume(ctx, &details.Product)
	if err != nil || conversion != nil {
		return conversion, err
	}

	created, err := s.resolver.DeriveConversion(ctx, details, record)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	return s.resolver.ResolveToMassOrVolume(ctx, &details.Product)
}

// updateImage downloads the external record's preferred image and stores it
// under a name derived from the product id. A record without imagery is not
// an error.
func (s *EnrichmentService) updateImage(ctx context.Context, details *domain.ProductDetails, record *domain.FactsRecord) (string, error) {
	imageURL := record.Product.PreferredImageURL()
	if imageURL == "" {
		log.Printf("[enrich] no image found for product %q", details.Product.Name)
		return "no image", nil
	}

	image, err := s.facts.FetchImage(ctx, imageURL)
	if err != nil {
		return "", err
	}
	if err := s.inventory.UploadProductPicture(ctx, details.Product.ID, image); err != nil {
		return "", err
	}
	log.Printf("[enrich] added image for product %q", details.Product.Name)
	return "", nil
}
