// Package stripe adapts the Stripe API to the payment provider port:
// hosted checkout session creation and webhook signature verification.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/acmeshop/storefront/internal/payment-service/ports"
)

// Ensure the adapter implements the port at compile time.
var _ ports.Provider = (*Provider)(nil)

// Provider talks to Stripe. The webhook secret is the shared secret the
// webhook endpoint was registered with; it is unrelated to the API key.
type Provider struct {
	api           *client.API
	webhookSecret string
}

// New builds the Stripe provider from the API secret key and the
// webhook signing secret.
func New(secretKey, webhookSecret string) *Provider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Provider{api: api, webhookSecret: webhookSecret}
}

// CreateCheckoutSession opens a hosted checkout session. The order id
// travels in ClientReferenceID and comes back on the completion event.
func (p *Provider) CreateCheckoutSession(ctx context.Context, params ports.CheckoutParams) (*ports.CheckoutSession, error) {
	// Stripe amounts are integers in the currency's smallest unit.
	unitAmount := params.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	opts := &stripego.CheckoutSessionParams{
		SuccessURL:         stripego.String(params.SuccessURL),
		CancelURL:          stripego.String(params.CancelURL),
		Mode:               stripego.String(string(stripego.CheckoutSessionModePayment)),
		ClientReferenceID:  stripego.String(params.Reference),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripego.String(params.Currency),
					UnitAmount: stripego.Int64(unitAmount),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(params.Description),
					},
				},
				Quantity: stripego.Int64(1),
			},
		},
	}
	opts.Context = ctx

	sess, err := p.api.CheckoutSessions.New(opts)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &ports.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyEvent checks the Stripe-Signature header against the webhook
// secret and decodes the event. The API version check is relaxed so a
// provider-side version bump does not silently break fulfillment.
func (p *Provider) VerifyEvent(payload []byte, signatureHeader string) (*ports.ProviderEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe: construct event: %w", err)
	}

	out := &ports.ProviderEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != ports.EventCheckoutCompleted {
		return out, nil
	}

	var sess stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		// Authentic but undecodable; surface it as a completed event
		// with no reference so the pipeline acknowledges it.
		slog.Warn("stripe: undecodable checkout session in verified event", "event_id", event.ID, "error", err)
		return out, nil
	}
	out.Reference = sess.ClientReferenceID
	return out, nil
}
