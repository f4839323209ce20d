package grocy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pantrylens/enricher/internal/domain"
)

// Client talks to a Grocy-compatible inventory backend. Every call carries
// the API key header; any response status >= 400 is an error.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new inventory backend client
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// do executes a request against an API path. A nil body sends no payload;
// []byte is sent raw, anything else is JSON-encoded.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader *bytes.Reader
	contentType := ""
	switch payload := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(payload)
		contentType = "application/octet-stream"
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("GROCY-API-KEY", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrInventoryAPI, method, path, err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	_, _ = respBody.ReadFrom(resp.Body)

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s %s: status %d: %s",
			domain.ErrInventoryAPI, method, path, resp.StatusCode, respBody.String())
	}

	return respBody.Bytes(), nil
}

// get executes a GET request and decodes the JSON response into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// ListQuantityUnits returns all quantity units defined in the backend
func (c *Client) ListQuantityUnits(ctx context.Context) ([]domain.QuantityUnit, error) {
	var units []domain.QuantityUnit
	if err := c.get(ctx, "objects/quantity_units", &units); err != nil {
		return nil, err
	}
	return units, nil
}

// ListBarcodes returns all barcode records. Their order is the order the
// enrichment pipeline processes barcodes in.
func (c *Client) ListBarcodes(ctx context.Context) ([]domain.BarcodeRecord, error) {
	var records []domain.BarcodeRecord
	if err := c.get(ctx, "objects/product_barcodes", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ProductByBarcode returns a product and its barcode records by barcode
func (c *Client) ProductByBarcode(ctx context.Context, barcode string) (*domain.ProductDetails, error) {
	var details domain.ProductDetails
	if err := c.get(ctx, "stock/products/by-barcode/"+url.PathEscape(barcode), &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// UpdateBarcode writes a barcode record back
func (c *Client) UpdateBarcode(ctx context.Context, record *domain.BarcodeRecord) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("objects/product_barcodes/%d", record.ID), record)
	return err
}

// UpdateProduct patches a subset of a product's fields
func (c *Client) UpdateProduct(ctx context.Context, productID int, fields map[string]any) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("objects/products/%d", productID), fields)
	return err
}

// conversionQuery builds the query[] filter string shared by the resolved
// and unresolved conversion lookups
func conversionQuery(productID, fromUnitID, toUnitID int) string {
	params := url.Values{}
	params["query[]"] = []string{
		fmt.Sprintf("product_id=%d", productID),
		fmt.Sprintf("from_qu_id=%d", fromUnitID),
		fmt.Sprintf("to_qu_id=%d", toUnitID),
	}
	return params.Encode()
}

// ResolvedConversion looks up a conversion in the backend's pre-resolved
// table, which already folds transitive factors. Returns nil when no
// conversion exists for the triple.
func (c *Client) ResolvedConversion(ctx context.Context, productID, fromUnitID, toUnitID int) (*domain.ConversionRule, error) {
	var conversions []domain.ConversionRule
	path := "objects/quantity_unit_conversions_resolved?" + conversionQuery(productID, fromUnitID, toUnitID)
	if err := c.get(ctx, path, &conversions); err != nil {
		return nil, err
	}
	if len(conversions) == 0 {
		return nil, nil
	}
	return &conversions[0], nil
}

// CreateConversion persists a new unit conversion rule
func (c *Client) CreateConversion(ctx context.Context, rule *domain.ConversionRule) error {
	_, err := c.do(ctx, http.MethodPost, "objects/quantity_unit_conversions", rule)
	return err
}

// UploadProductPicture stores image data under a name derived from the
// product id and points the product's picture at it. An existing picture of
// that name is overwritten; a failing upload is retried once after deleting
// the stale file, matching the backend's replace semantics.
func (c *Client) UploadProductPicture(ctx context.Context, productID int, image []byte) error {
	imageName := fmt.Sprintf("%d.jpg", productID)
	encodedName := base64.StdEncoding.EncodeToString([]byte(imageName))
	path := "files/productpictures/" + encodedName

	if _, err := c.do(ctx, http.MethodPut, path, image); err != nil {
		log.Printf("[grocy] picture upload for product %d failed, deleting and retrying: %v", productID, err)
		if _, err := c.do(ctx, http.MethodDelete, path, nil); err != nil {
			return err
		}
		if _, err := c.do(ctx, http.MethodPut, path, image); err != nil {
			return err
		}
	}

	return c.UpdateProduct(ctx, productID, map[string]any{"picture_file_name": imageName})
}
