package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/pantrylens/enricher/internal/domain"
)

// ConversionResolver finds or derives a product's conversion from its stock
// unit to mass or volume. Derivation is one-shot: it never composes
// multi-hop conversions, the backend's resolved table already folds
// transitive factors.
type ConversionResolver struct {
	inventory domain.InventoryClient
	units     *domain.UnitTable
	confirm   domain.ConfirmFunc
	ask       bool
}

// NewConversionResolver creates a resolver. When ask is true, deriving a new
// conversion is gated behind the confirm capability; otherwise new
// conversions are added without asking.
func NewConversionResolver(inventory domain.InventoryClient, units *domain.UnitTable, confirm domain.ConfirmFunc, ask bool) *ConversionResolver {
	return &ConversionResolver{
		inventory: inventory,
		units:     units,
		confirm:   confirm,
		ask:       ask,
	}
}

// ResolveToMassOrVolume returns the product's stock-to-grams conversion,
// falling back to stock-to-milliliters. Returns nil without error when
// neither exists.
func (r *ConversionResolver) ResolveToMassOrVolume(ctx context.Context, product *domain.Product) (*domain.ConversionRule, error) {
	conversion, err := r.inventory.ResolvedConversion(ctx, product.ID, product.StockUnitID, r.units.GramID())
	if err != nil {
		return nil, err
	}
	if conversion != nil {
		return conversion, nil
	}
	return r.inventory.ResolvedConversion(ctx, product.ID, product.StockUnitID, r.units.MilliliterID())
}

// DeriveConversion interprets the external record's packaging quantity and
// persists a new stock-unit-to-parsed-unit rule with the parsed amount as
// factor. Reports whether a rule was created; a declined confirmation
// creates nothing and is not an error.
func (r *ConversionResolver) DeriveConversion(ctx context.Context, details *domain.ProductDetails, record *domain.FactsRecord) (bool, error) {
	amount, unitID, err := ExtractAmountAndUnit(record, r.units)
	if err != nil {
		return false, err
	}

	product := details.Product
	stockUnitName := r.units.NameForID(product.StockUnitID)
	unitName := r.units.NameForID(unitID)

	if r.ask {
		question := fmt.Sprintf(
			"Product %q (id %d) has no conversion from stock unit %s to g or ml.\nBarcode %s product amount: %g %s\nAdd conversion to %s?",
			product.Name, product.ID, stockUnitName, record.Code, amount, unitName, unitName)
		if !r.confirm(question) {
			log.Printf("[enrich] conversion for product %q declined", product.Name)
			return false, nil
		}
	}

	rule := &domain.ConversionRule{
		ProductID:  product.ID,
		FromUnitID: product.StockUnitID,
		ToUnitID:   unitID,
		Factor:     amount,
	}
	if err := r.inventory.CreateConversion(ctx, rule); err != nil {
		return false, err
	}
	log.Printf("[enrich] added conversion from %s to %s for product %d", stockUnitName, unitName, product.ID)
	return true, nil
}
