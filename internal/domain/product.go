package domain

// QuantityUnit is a unit of measure defined in the inventory backend
type QuantityUnit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Product represents the subset of an inventory product the pipeline reads and patches
type Product struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	StockUnitID     int      `json:"qu_id_stock"`
	Calories        *float64 `json:"calories"`
	PictureFileName *string  `json:"picture_file_name"`
}

// BarcodeRecord links a barcode to an inventory product. One product may own
// several barcode records; a barcode identifies at most one record.
type BarcodeRecord struct {
	ID        int      `json:"id"`
	ProductID int      `json:"product_id"`
	Barcode   string   `json:"barcode"`
	Note      *string  `json:"note"`
	Amount    *float64 `json:"amount"`
	UnitID    *int     `json:"qu_id"`
}

// ProductDetails is the payload of the backend's product-by-barcode lookup
type ProductDetails struct {
	Product  Product         `json:"product"`
	Barcodes []BarcodeRecord `json:"product_barcodes"`
}

// ConversionRule converts a product's source unit into a target unit.
// At most one rule exists per (product, from, to) triple; the factor is positive.
type ConversionRule struct {
	ID         int     `json:"id,omitempty"`
	ProductID  int     `json:"product_id"`
	FromUnitID int     `json:"from_qu_id"`
	ToUnitID   int     `json:"to_qu_id"`
	Factor     float64 `json:"factor"`
}
