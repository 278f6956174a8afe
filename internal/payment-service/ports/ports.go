// Package ports holds the outbound interfaces of the payment service:
// the order service gateway and the external checkout provider.
package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// EventCheckoutCompleted is the only provider event kind that drives a
// state transition; every other kind is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// OrderSummary is the slice of an order the payment service needs.
type OrderSummary struct {
	ID          string
	TotalAmount decimal.Decimal
	Status      string
}

// OrderGateway is the outbound port to the order service.
type OrderGateway interface {
	// GetOrder returns the order summary or a NotFound error.
	GetOrder(ctx context.Context, id string) (*OrderSummary, error)
	// SetOrderStatus applies a terminal transition; the order service
	// treats a repeat as a successful no-op.
	SetOrderStatus(ctx context.Context, id, status string) error
}

// CheckoutParams describes the session requested from the provider.
// Reference carries the order id so the completion webhook can be
// correlated back to the order.
type CheckoutParams struct {
	Reference   string
	Amount      decimal.Decimal
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the provider's answer: its own session id and the
// URL the payer is redirected to. Nothing else is persisted here.
type CheckoutSession struct {
	ID  string
	URL string
}

// ProviderEvent is a verified webhook event, reduced to what the
// reconciliation pipeline needs. Reference is only populated for
// checkout-completed events.
type ProviderEvent struct {
	ID        string
	Type      string
	Reference string
}

// Provider is the external payment provider: it hosts checkout and
// signs the asynchronous events it delivers.
type Provider interface {
	// CreateCheckoutSession requests a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	// VerifyEvent authenticates a raw webhook delivery against the
	// shared signing secret and decodes it. An error means the payload
	// must not be trusted or processed.
	VerifyEvent(payload []byte, signatureHeader string) (*ProviderEvent, error)
}
