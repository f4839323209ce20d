package usecase

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/pantrylens/enricher/internal/domain"
)

// quantityPattern matches a leading decimal number loosely followed by an
// alphabetic unit token, e.g. "250 g", "1.5kg". Matched against lowercased
// input; no thousands separators.
var quantityPattern = regexp.MustCompile(`^(\d+\.?\d*)\s*([a-z]+)`)

// ExtractAmountAndUnit interprets an external record's free-text packaging
// quantity and returns the amount plus the backend unit id the unit token
// maps to. Only grams, kilograms, milliliters and liters are recognized.
func ExtractAmountAndUnit(record *domain.FactsRecord, units *domain.UnitTable) (float64, int, error) {
	if record == nil || record.Product == nil {
		return 0, 0, fmt.Errorf("%w: no product data in response", domain.ErrQuantityParse)
	}

	quantity := strings.TrimSpace(record.Product.Quantity)
	if quantity == "" {
		return 0, 0, fmt.Errorf("%w: no quantity data in response", domain.ErrQuantityParse)
	}

	match := quantityPattern.FindStringSubmatch(strings.ToLower(quantity))
	if match == nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrQuantityParse, quantity)
	}

	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrQuantityParse, quantity)
	}

	// The declared total quantity sometimes disagrees with the quantity
	// text. The parsed amount stays authoritative; the mismatch is only
	// worth a warning.
	if declared := string(record.Product.DeclaredQuantity); declared != "" && declared != match[1] {
		log.Printf("[facts] declared quantity %s does not match parsed amount %s", declared, match[1])
	}

	unitID, ok := units.UnitForToken(match[2])
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown unit %q", domain.ErrQuantityParse, match[2])
	}

	return amount, unitID, nil
}
