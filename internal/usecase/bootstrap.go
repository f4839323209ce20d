package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/pantrylens/enricher/internal/domain"
)

const timestampLayout = "2006-01-02 15:04:05"

// BootstrapService imports products and due dates from CSV into the
// inventory backend. Row-by-row: a failing row is logged and skipped, the
// import continues.
type BootstrapService struct {
	inventory domain.BootstrapClient
}

// NewBootstrapService creates a bootstrap service
func NewBootstrapService(inventory domain.BootstrapClient) *BootstrapService {
	return &BootstrapService{inventory: inventory}
}

// ImportProducts reads a product CSV (header row skipped; columns: name,
// location, stock unit, product group, min stock amount, purchase unit,
// purchase-to-stock factor), creates missing products and upserts the
// purchase-to-stock conversion when the units differ.
func (s *BootstrapService) ImportProducts(ctx context.Context, csvPath string) error {
	rows, err := readCSV(csvPath, 7)
	if err != nil {
		return err
	}

	locations, err := s.inventory.NameIDMap(ctx, "locations")
	if err != nil {
		return err
	}
	groups, err := s.inventory.NameIDMap(ctx, "product_groups")
	if err != nil {
		return err
	}
	units, err := s.inventory.NameIDMap(ctx, "quantity_units")
	if err != nil {
		return err
	}

	for _, row := range rows {
		name := row[0]
		if err := s.importProduct(ctx, row, locations, groups, units); err != nil {
			log.Printf("[bootstrap] error importing product %q: %v", name, err)
			continue
		}
		log.Printf("[bootstrap] product %q processed", name)
	}
	return nil
}

// importProduct handles one CSV row
func (s *BootstrapService) importProduct(ctx context.Context, row []string, locations, groups, units map[string]int) error {
	name, locationName, stockUnitName, groupName := row[0], row[1], row[2], row[3]
	minStockText, purchaseUnitName, factorText := row[4], row[5], row[6]

	locationID, ok := locations[locationName]
	if !ok {
		return fmt.Errorf("unknown location %q", locationName)
	}
	groupID, ok := groups[groupName]
	if !ok {
		return fmt.Errorf("unknown product group %q", groupName)
	}
	stockUnitID, ok := units[stockUnitName]
	if !ok {
		return fmt.Errorf("unknown quantity unit %q", stockUnitName)
	}
	purchaseUnitID, ok := units[purchaseUnitName]
	if !ok {
		return fmt.Errorf("unknown quantity unit %q", purchaseUnitName)
	}

	minStock := 0
	if minStockText != "" {
		minStock, _ = strconv.Atoi(minStockText)
	}

	product, err := s.inventory.FindProductByName(ctx, name)
	if err != nil {
		return err
	}

	var productID int
	if product != nil {
		productID = product.ID
	} else {
		maxID, err := s.inventory.MaxObjectID(ctx, "products")
		if err != nil {
			return err
		}
		productID = maxID + 1
		fields := map[string]any{
			"id":                    productID,
			"name":                  name,
			"location_id":           locationID,
			"product_group_id":      groupID,
			"qu_id_purchase":        purchaseUnitID,
			"qu_id_stock":           stockUnitID,
			"min_stock_amount":      minStock,
			"row_created_timestamp": time.Now().Format(timestampLayout),
		}
		if err := s.inventory.CreateProduct(ctx, fields); err != nil {
			return err
		}
	}

	if purchaseUnitID == stockUnitID {
		return nil
	}

	factor, err := strconv.ParseFloat(factorText, 64)
	if err != nil {
		return fmt.Errorf("invalid conversion factor %q: %w", factorText, err)
	}

	// The backend creates the purchase-to-stock rule with the product, so
	// the import only overwrites its factor.
	conversionID, err := s.inventory.ConversionID(ctx, productID, purchaseUnitID, stockUnitID)
	if err != nil {
		return err
	}
	return s.inventory.UpdateConversion(ctx, conversionID, map[string]any{
		"id":                    conversionID,
		"product_id":            productID,
		"from_qu_id":            purchaseUnitID,
		"to_qu_id":              stockUnitID,
		"factor":                factor,
		"row_created_timestamp": time.Now().Format(timestampLayout),
	})
}

// UpdateDueDates reads a due-date CSV (header row skipped; columns: id,
// name, default best-before days, days after freezing, days after opening)
// and patches the matching products. Rows whose id and name point at
// different products are skipped.
func (s *BootstrapService) UpdateDueDates(ctx context.Context, csvPath string) error {
	rows, err := readCSV(csvPath, 5)
	if err != nil {
		return err
	}

	for _, row := range rows {
		idText, name := row[0], row[1]
		dueDays, afterFreezing, afterOpen := row[2], row[3], row[4]

		rowID, err := strconv.Atoi(idText)
		if err != nil {
			log.Printf("[bootstrap] invalid product id %q for %q", idText, name)
			continue
		}

		product, err := s.inventory.FindProductByName(ctx, name)
		if err != nil {
			log.Printf("[bootstrap] error looking up product %q: %v", name, err)
			continue
		}
		if product == nil || product.ID != rowID {
			log.Printf("[bootstrap] %v: product %q is not id %d", domain.ErrIdentifierMismatch, name, rowID)
			continue
		}

		fields := map[string]any{"id": rowID}
		days, err := strconv.Atoi(dueDays)
		if err != nil {
			log.Printf("[bootstrap] invalid best-before days %q for %q", dueDays, name)
			continue
		}
		fields["default_best_before_days"] = days
		if afterFreezing != "" {
			if v, err := strconv.Atoi(afterFreezing); err == nil {
				fields["default_best_before_days_after_freezing"] = v
			}
		}
		if afterOpen != "" {
			if v, err := strconv.Atoi(afterOpen); err == nil {
				fields["default_best_before_days_after_open"] = v
			}
		}

		if err := s.inventory.UpdateProduct(ctx, rowID, fields); err != nil {
			log.Printf("[bootstrap] error updating product %q: %v", name, err)
			continue
		}
		log.Printf("[bootstrap] product %q updated", name)
	}
	return nil
}

// readCSV loads a CSV file, drops the header row and validates column count
func readCSV(path string, columns int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = columns
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}
