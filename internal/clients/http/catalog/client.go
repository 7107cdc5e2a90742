package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds every catalog request when no client is supplied.
const DefaultTimeout = 5 * time.Second

// ErrNotFound is returned when the catalog answers 404 for a product id.
var ErrNotFound = errors.New("catalog resource not found")

// StockPayload is the body of GET /stock/{id}.
type StockPayload struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// ProductPayload is the body of GET /products/{id}. Fields outside the
// known schema land in Extra with their raw JSON values.
type ProductPayload struct {
	ID    int64                      `json:"id"`
	Title string                     `json:"title"`
	Price decimal.Decimal            `json:"price"`
	Image string                     `json:"image"`
	Extra map[string]json.RawMessage `json:"-"`
}

// productFields are the keys ProductPayload decodes itself. "amount" is
// reserved for the cart line item and never taken from the catalog.
var productFields = []string{"id", "title", "price", "image", "amount"}

func (p *ProductPayload) UnmarshalJSON(data []byte) error {
	type plain ProductPayload
	var base plain
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, name := range productFields {
		delete(fields, name)
	}
	if len(fields) > 0 {
		base.Extra = fields
	}
	*p = ProductPayload(base)
	return nil
}

// StatusError reports an unexpected catalog status code.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog API error: %s (%s)", e.Message, e.Status)
	}
	return fmt.Sprintf("catalog API unexpected status: %s", e.Status)
}

// Client talks to the remote catalog/stock HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient instantiates the catalog client with sane defaults. A nil
// httpClient gets DefaultTimeout and a traced transport.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("catalog base URL %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// GetStock fetches the available amount for a product.
func (c *Client) GetStock(ctx context.Context, productID int64) (*StockPayload, error) {
	var payload StockPayload
	if err := c.get(ctx, "stock", productID, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetProduct fetches catalog details for a product.
func (c *Client) GetProduct(ctx context.Context, productID int64) (*ProductPayload, error) {
	var payload ProductPayload
	if err := c.get(ctx, "products", productID, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, resource string, id int64, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("catalog client not configured")
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, id)
	if err != nil {
		return fmt.Errorf("encode %s id: %w", resource, err)
	}
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, resource, pathParam)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call catalog API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode catalog %s response: %w", resource, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %d", ErrNotFound, resource, id)
	default:
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(resp.Body),
		}
	}
}

// errorMessage pulls a message out of an error body when one is present.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var problem struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(raw, &problem); err != nil {
		return ""
	}
	for _, candidate := range []string{problem.Message, problem.Detail, problem.Title} {
		if msg := strings.TrimSpace(candidate); msg != "" {
			return msg
		}
	}
	return ""
}
