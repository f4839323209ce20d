package grocy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pantrylens/enricher/internal/domain"
)

// Bootstrap operations used by the CSV import. They work against the generic
// object endpoints rather than the enrichment-specific ones.

type namedObject struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NameIDMap fetches all objects of an entity and maps their names to ids
func (c *Client) NameIDMap(ctx context.Context, entity string) (map[string]int, error) {
	var objects []namedObject
	if err := c.get(ctx, "objects/"+entity, &objects); err != nil {
		return nil, err
	}
	mapping := make(map[string]int, len(objects))
	for _, obj := range objects {
		mapping[obj.Name] = obj.ID
	}
	return mapping, nil
}

// FindProductByName returns the first product with an exactly matching name,
// or nil when none exists
func (c *Client) FindProductByName(ctx context.Context, name string) (*domain.Product, error) {
	params := url.Values{}
	params["query[]"] = []string{"name=" + name}
	var products []domain.Product
	if err := c.get(ctx, "objects/products?"+params.Encode(), &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

// MaxObjectID returns the highest id currently used by an entity, 0 when empty
func (c *Client) MaxObjectID(ctx context.Context, entity string) (int, error) {
	var objects []namedObject
	if err := c.get(ctx, "objects/"+entity, &objects); err != nil {
		return 0, err
	}
	maxID := 0
	for _, obj := range objects {
		if obj.ID > maxID {
			maxID = obj.ID
		}
	}
	return maxID, nil
}

// CreateProduct creates a product from a field map
func (c *Client) CreateProduct(ctx context.Context, fields map[string]any) error {
	_, err := c.do(ctx, http.MethodPost, "objects/products", fields)
	return err
}

// ConversionID looks up the id of an existing conversion rule in the
// unresolved table. Unlike ResolvedConversion, a missing rule is an error:
// the import expects the backend to have created the default purchase-to-
// stock rule alongside the product.
func (c *Client) ConversionID(ctx context.Context, productID, fromUnitID, toUnitID int) (int, error) {
	var conversions []domain.ConversionRule
	path := "objects/quantity_unit_conversions?" + conversionQuery(productID, fromUnitID, toUnitID)
	if err := c.get(ctx, path, &conversions); err != nil {
		return 0, err
	}
	if len(conversions) == 0 {
		return 0, fmt.Errorf("%w: no conversion for product %d from unit %d to unit %d",
			domain.ErrInventoryAPI, productID, fromUnitID, toUnitID)
	}
	return conversions[0].ID, nil
}

// UpdateConversion overwrites an existing conversion rule
func (c *Client) UpdateConversion(ctx context.Context, conversionID int, fields map[string]any) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("objects/quantity_unit_conversions/%d", conversionID), fields)
	return err
}
