// Package catalog is the HTTP adapter for the order service's catalog
// gateway port.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/acmeshop/storefront/internal/order-service/app"
	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// Ensure the adapter implements the port at compile time.
var _ app.CatalogGateway = (*Client)(nil)

// Client talks to the catalog service over HTTP/JSON. Every call is
// bounded by the client timeout, and timeouts surface as Unavailable.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a catalog client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type productResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// GetProduct fetches a product through the catalog service, and hence
// through its cache.
func (c *Client) GetProduct(ctx context.Context, id string) (*app.ProductSummary, error) {
	url := fmt.Sprintf("%s/products/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "catalog service unreachable")
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		// fall through to decode
	case res.StatusCode == http.StatusNotFound:
		return nil, apperr.New(apperr.KindNotFound, "product %s not found", id)
	default:
		return nil, apperr.New(apperr.KindUnavailable, "catalog service returned %d", res.StatusCode)
	}

	var body productResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "catalog: decode product %s", id)
	}
	return &app.ProductSummary{ID: body.ID, Name: body.Name, Price: body.Price}, nil
}
