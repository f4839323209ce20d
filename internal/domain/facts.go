package domain

import (
	"bytes"
	"encoding/json"
)

// FactsRecord is the response shape shared by the OpenFoodFacts and
// OpenBeautyFacts product endpoints. It is read-only to the pipeline and
// never persisted verbatim.
type FactsRecord struct {
	Status  int           `json:"status"`
	Code    string        `json:"code"`
	Product *FactsProduct `json:"product"`
}

// Found reports whether the backing source has a record for the barcode
func (r *FactsRecord) Found() bool {
	return r != nil && r.Status != 0
}

// FactsProduct carries the fields the pipeline consumes from an external record
type FactsProduct struct {
	Name string `json:"product_name"`

	// Quantity is free text, e.g. "250 g" or "1.5l". DeclaredQuantity is an
	// independent numeric field that sometimes disagrees with it; it arrives
	// as either a JSON string or a number depending on the source.
	Quantity         string           `json:"quantity"`
	DeclaredQuantity DeclaredQuantity `json:"product_quantity"`

	Nutriments Nutriments `json:"nutriments"`

	ImageSmallURL string `json:"image_front_small_url"`
	ImageURL      string `json:"image_front_url"`
}

// DeclaredQuantity tolerates the string, number and null encodings the open
// databases use for product_quantity
type DeclaredQuantity string

func (q *DeclaredQuantity) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = DeclaredQuantity(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	*q = DeclaredQuantity(data)
	return nil
}

// Nutriments holds the nutrient values normalized to 100 reference units (g or ml)
type Nutriments struct {
	KcalPer100 *float64 `json:"energy-kcal_100g"`
}

// PreferredImageURL returns the small front image when present, falling back
// to the full-size front image. Empty when the record carries no imagery.
func (p *FactsProduct) PreferredImageURL() string {
	if p == nil {
		return ""
	}
	if p.ImageSmallURL != "" {
		return p.ImageSmallURL
	}
	return p.ImageURL
}
