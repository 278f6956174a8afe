// Package app implements the payment orchestration use cases: checkout
// session creation and the webhook reconciliation pipeline.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/acmeshop/storefront/internal/payment-service/eventlog"
	"github.com/acmeshop/storefront/internal/payment-service/ports"
	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// statusPaid is the terminal state the order service is driven to when
// a checkout completes.
const statusPaid = "PAID"

// CheckoutConfig carries the provider-facing knobs for session creation.
type CheckoutConfig struct {
	SuccessURL string
	CancelURL  string
	Currency   string
}

// Service coordinates the external payment provider and the order
// service. It holds no state of its own; correctness across duplicate
// webhook deliveries comes from the order service's idempotent
// transition, not from any lock here.
type Service struct {
	orders   ports.OrderGateway
	provider ports.Provider
	checkout CheckoutConfig

	// log may be nil, which disables the audit trail.
	log eventlog.Repository
}

// NewService builds the payment service. log may be nil.
func NewService(orders ports.OrderGateway, provider ports.Provider, checkout CheckoutConfig, log eventlog.Repository) *Service {
	return &Service{orders: orders, provider: provider, checkout: checkout, log: log}
}

// CreateCheckoutSession asks the provider for a hosted checkout session
// carrying the order's amount and its id as the reference. It returns
// the redirect URL and mutates no order state.
func (s *Service) CreateCheckoutSession(ctx context.Context, orderID string) (string, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, ports.CheckoutParams{
		Reference:   order.ID,
		Amount:      order.TotalAmount,
		Currency:    s.checkout.Currency,
		Description: fmt.Sprintf("Order #%s", order.ID),
		SuccessURL:  s.checkout.SuccessURL,
		CancelURL:   s.checkout.CancelURL,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, err, "payment provider rejected session for order %s", orderID)
	}

	slog.InfoContext(ctx, "checkout session created", "order_id", orderID, "session_id", session.ID)
	return session.URL, nil
}

// HandleProviderEvent reconciles one webhook delivery in three phases:
// authenticate, interpret, mutate. Only the last phase touches order
// state, and only through the idempotent transition, so the provider's
// at-least-once delivery is harmless.
//
// A nil return acknowledges the delivery. A returned error makes the
// webhook response fail so the provider redelivers later; that is the
// system's only retry mechanism.
func (s *Service) HandleProviderEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	// Phase 1: authenticate. Nothing is looked up or mutated for an
	// event that fails verification.
	event, err := s.provider.VerifyEvent(payload, signatureHeader)
	if err != nil {
		slog.WarnContext(ctx, "rejected webhook with invalid signature", "error", err)
		return apperr.Wrap(apperr.KindUnauthenticated, err, "webhook signature verification failed")
	}

	// Phase 2: interpret.
	if event.Type != ports.EventCheckoutCompleted {
		slog.InfoContext(ctx, "ignoring provider event", "event_id", event.ID, "type", event.Type)
		s.record(ctx, event, eventlog.OutcomeIgnored, nil)
		return nil
	}

	if event.Reference == "" {
		slog.WarnContext(ctx, "completed event carries no order reference", "event_id", event.ID)
		s.record(ctx, event, eventlog.OutcomeNoReference, nil)
		return nil
	}

	orderID, err := uuid.Parse(event.Reference)
	if err != nil {
		slog.ErrorContext(ctx, "completed event reference is not an order id",
			"event_id", event.ID, "reference", event.Reference)
		s.record(ctx, event, eventlog.OutcomeBadReference, nil)
		return nil
	}

	// Phase 3: mutate. The transition is idempotent on the order
	// service side, so a redelivered event converges to the same
	// terminal state without error.
	if err := s.orders.SetOrderStatus(ctx, orderID.String(), statusPaid); err != nil {
		if apperr.IsNotFound(err) {
			// Redelivering will never make the order exist; acknowledge
			// so the provider stops retrying.
			slog.WarnContext(ctx, "completed event references unknown order",
				"event_id", event.ID, "order_id", orderID.String())
			s.record(ctx, event, eventlog.OutcomeUnknownOrder, nil)
			return nil
		}
		slog.ErrorContext(ctx, "failed to mark order paid, provider will retry",
			"event_id", event.ID, "order_id", orderID.String(), "error", err)
		s.record(ctx, event, eventlog.OutcomeDeferred, err)
		return err
	}

	slog.InfoContext(ctx, "order fulfilled", "event_id", event.ID, "order_id", orderID.String())
	s.record(ctx, event, eventlog.OutcomeFulfilled, nil)
	return nil
}

// record appends to the audit log. Log failures never affect the
// webhook response.
func (s *Service) record(ctx context.Context, event *ports.ProviderEvent, outcome eventlog.Outcome, cause error) {
	if s.log == nil {
		return
	}
	entry := eventlog.NewEntry(ctx, event.ID, event.Type, event.Reference, outcome, cause)
	if err := s.log.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to append payment event log", "event_id", event.ID, "error", err)
	}
}
