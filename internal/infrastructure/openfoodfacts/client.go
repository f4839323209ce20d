package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pantrylens/enricher/internal/domain"
	"golang.org/x/time/rate"
)

const userAgent = "PantryLens/1.0 (github.com/pantrylens/enricher)"

// Client queries two open product databases of identical response shape,
// falling back to the secondary source when the primary has no record.
// Requests are rate limited; the public databases throttle heavy clients.
type Client struct {
	httpClient   *http.Client
	primaryURL   string
	secondaryURL string
	rateLimiter  *rate.Limiter
}

// NewClient creates a new open-data client
func NewClient(primaryURL, secondaryURL string, requestsPerSecond float64, burst int, timeout time.Duration) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1.5
	}
	if burst <= 0 {
		burst = 5
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		primaryURL:   strings.TrimSuffix(primaryURL, "/"),
		secondaryURL: strings.TrimSuffix(secondaryURL, "/"),
		rateLimiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Fetch looks a barcode up in the primary source, then the secondary.
// It fails with domain.ErrBarcodeNotFound when neither has a record and
// domain.ErrExternalAPI on transport or HTTP failure. Pure read.
func (c *Client) Fetch(ctx context.Context, barcode string) (*domain.FactsRecord, error) {
	log.Printf("[facts] querying primary source for barcode %s", barcode)
	record, err := c.query(ctx, c.primaryURL, barcode)
	if err != nil {
		return nil, err
	}
	if record.Found() {
		return record, nil
	}

	log.Printf("[facts] barcode %s not in primary source, trying secondary", barcode)
	record, err = c.query(ctx, c.secondaryURL, barcode)
	if err != nil {
		return nil, err
	}
	if !record.Found() {
		return nil, fmt.Errorf("%w: %s", domain.ErrBarcodeNotFound, barcode)
	}
	return record, nil
}

// query fetches and decodes one source's product endpoint
func (c *Client) query(ctx context.Context, baseURL, barcode string) (*domain.FactsRecord, error) {
	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", baseURL, url.PathEscape(barcode))
	body, err := c.getBody(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var record domain.FactsRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", baseURL, err)
	}
	return &record, nil
}

// FetchImage downloads product imagery from the given URL
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	return c.getBody(ctx, imageURL)
}

// getBody executes a rate-limited GET and returns the response body
func (c *Client) getBody(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrExternalAPI, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: GET %s: status %d", domain.ErrExternalAPI, reqURL, resp.StatusCode)
	}
	return body, nil
}
