// Package order is the HTTP adapter for the payment service's order
// gateway port.
package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/acmeshop/storefront/internal/payment-service/ports"
	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// Ensure the adapter implements the port at compile time.
var _ ports.OrderGateway = (*Client)(nil)

// Client talks to the order service over HTTP/JSON. Calls are bounded
// by the client timeout; a timeout on the webhook path surfaces as
// Unavailable, which makes the webhook response fail so the provider
// retries.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds an order client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type orderResponse struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
}

type updateStatusRequest struct {
	NewStatus string `json:"new_status"`
}

// GetOrder fetches an order summary.
func (c *Client) GetOrder(ctx context.Context, id string) (*ports.OrderSummary, error) {
	url := fmt.Sprintf("%s/orders/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("order: build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "order service unreachable")
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		// fall through to decode
	case res.StatusCode == http.StatusNotFound:
		return nil, apperr.New(apperr.KindNotFound, "order %s not found", id)
	default:
		return nil, apperr.New(apperr.KindUnavailable, "order service returned %d", res.StatusCode)
	}

	var body orderResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, err, "order: decode order %s", id)
	}
	return &ports.OrderSummary{ID: body.ID, TotalAmount: body.TotalAmount, Status: body.Status}, nil
}

// SetOrderStatus applies a terminal transition via the order service's
// idempotent PATCH endpoint.
func (c *Client) SetOrderStatus(ctx context.Context, id, status string) error {
	payload, err := json.Marshal(updateStatusRequest{NewStatus: status})
	if err != nil {
		return fmt.Errorf("order: encode status update: %w", err)
	}

	url := fmt.Sprintf("%s/orders/%s/status", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("order: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, err, "order service unreachable")
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return apperr.New(apperr.KindNotFound, "order %s not found", id)
	default:
		return apperr.New(apperr.KindUnavailable, "order service returned %d", res.StatusCode)
	}
}
