package domain

import "context"

// InventoryClient defines the inventory backend operations the enrichment pipeline uses
type InventoryClient interface {
	ListQuantityUnits(ctx context.Context) ([]QuantityUnit, error)
	ListBarcodes(ctx context.Context) ([]BarcodeRecord, error)
	ProductByBarcode(ctx context.Context, barcode string) (*ProductDetails, error)
	UpdateBarcode(ctx context.Context, record *BarcodeRecord) error
	UpdateProduct(ctx context.Context, productID int, fields map[string]any) error
	ResolvedConversion(ctx context.Context, productID, fromUnitID, toUnitID int) (*ConversionRule, error)
	CreateConversion(ctx context.Context, rule *ConversionRule) error
	UploadProductPicture(ctx context.Context, productID int, image []byte) error
}

// BootstrapClient defines the additional backend operations the CSV import uses
type BootstrapClient interface {
	NameIDMap(ctx context.Context, entity string) (map[string]int, error)
	FindProductByName(ctx context.Context, name string) (*Product, error)
	MaxObjectID(ctx context.Context, entity string) (int, error)
	CreateProduct(ctx context.Context, fields map[string]any) error
	ConversionID(ctx context.Context, productID, fromUnitID, toUnitID int) (int, error)
	UpdateConversion(ctx context.Context, conversionID int, fields map[string]any) error
	UpdateProduct(ctx context.Context, productID int, fields map[string]any) error
}

// FactsClient defines the interface for the open product databases
type FactsClient interface {
	Fetch(ctx context.Context, barcode string) (*FactsRecord, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Ledger is the durable set of barcodes already attempted. Record must be
// durable before it returns; entries are never removed.
type Ledger interface {
	Contains(barcode string) bool
	Record(barcode string) error
}

// ConfirmFunc answers a yes/no question posed to a human. Implementations
// prompt on a terminal or supply fixed answers in tests.
type ConfirmFunc func(prompt string) bool
