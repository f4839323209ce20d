package domain

import "errors"

var (
	// ErrInventoryAPI is returned when an inventory backend request fails
	ErrInventoryAPI = errors.New("inventory API request failed")

	// ErrExternalAPI is returned on transport or HTTP failure against an open product database
	ErrExternalAPI = errors.New("open product database request failed")

	// ErrBarcodeNotFound is returned when no open product database has the barcode
	ErrBarcodeNotFound = errors.New("barcode not found in any open product database")

	// ErrQuantityParse is returned when a packaging quantity text cannot be interpreted
	ErrQuantityParse = errors.New("could not parse quantity")

	// ErrIdentifierMismatch is returned when cross-checked identifiers disagree
	ErrIdentifierMismatch = errors.New("identifiers do not match")

	// ErrNoConversion is returned when a product has no direct or derivable
	// conversion from its stock unit to mass or volume
	ErrNoConversion = errors.New("no conversion to mass or volume")

	// ErrUnitMissing is returned when a configured unit name does not exist in the backend
	ErrUnitMissing = errors.New("quantity unit not present in inventory backend")
)
