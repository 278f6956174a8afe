package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acmeshop/storefront/internal/payment-service/eventlog"
	"github.com/acmeshop/storefront/internal/payment-service/ports"
	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

type fakeProvider struct {
	event      *ports.ProviderEvent
	verifyErr  error
	session    *ports.CheckoutSession
	createErr  error
	lastParams ports.CheckoutParams
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params ports.CheckoutParams) (*ports.CheckoutSession, error) {
	f.lastParams = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.session, nil
}

func (f *fakeProvider) VerifyEvent(payload []byte, signatureHeader string) (*ports.ProviderEvent, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.event, nil
}

// fakeOrders mimics the order service's idempotent terminal transition.
type fakeOrders struct {
	orders   map[string]*ports.OrderSummary
	setErr   error
	getCalls int
	setCalls int
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[string]*ports.OrderSummary)}
}

func (f *fakeOrders) add(id, amount, status string) {
	f.orders[id] = &ports.OrderSummary{ID: id, TotalAmount: decimal.RequireFromString(amount), Status: status}
}

func (f *fakeOrders) GetOrder(ctx context.Context, id string) (*ports.OrderSummary, error) {
	f.getCalls++
	o, ok := f.orders[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "order %s not found", id)
	}
	return o, nil
}

func (f *fakeOrders) SetOrderStatus(ctx context.Context, id, status string) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	o, ok := f.orders[id]
	if !ok {
		return apperr.New(apperr.KindNotFound, "order %s not found", id)
	}
	if o.Status == "PENDING" {
		o.Status = status
	}
	return nil
}

// recordingLog captures audit entries in memory.
type recordingLog struct {
	entries []eventlog.Entry
}

func (r *recordingLog) Save(ctx context.Context, entry *eventlog.Entry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *recordingLog) ListByReference(ctx context.Context, reference string) ([]eventlog.Entry, error) {
	out := make([]eventlog.Entry, 0)
	for _, e := range r.entries {
		if e.Reference == reference {
			out = append(out, e)
		}
	}
	return out, nil
}

func checkoutConfig() CheckoutConfig {
	return CheckoutConfig{
		SuccessURL: "http://localhost:5173/success",
		CancelURL:  "http://localhost:5173/cancel",
		Currency:   "php",
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	orders := newFakeOrders()
	orderID := uuid.NewString()
	orders.add(orderID, "200.00", "PENDING")

	provider := &fakeProvider{session: &ports.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}}
	svc := NewService(orders, provider, checkoutConfig(), nil)

	url, err := svc.CreateCheckoutSession(context.Background(), orderID)
	require.NoError(t, err)
	require.Equal(t, "https://pay.example/cs_1", url)

	require.Equal(t, orderID, provider.lastParams.Reference)
	require.True(t, provider.lastParams.Amount.Equal(decimal.RequireFromString("200.00")))
	require.Equal(t, "php", provider.lastParams.Currency)
}

func TestCreateCheckoutSessionUnknownOrder(t *testing.T) {
	svc := NewService(newFakeOrders(), &fakeProvider{}, checkoutConfig(), nil)

	_, err := svc.CreateCheckoutSession(context.Background(), uuid.NewString())
	require.True(t, apperr.IsNotFound(err))
}

func TestCreateCheckoutSessionProviderDown(t *testing.T) {
	orders := newFakeOrders()
	orderID := uuid.NewString()
	orders.add(orderID, "200.00", "PENDING")

	provider := &fakeProvider{createErr: apperr.New(apperr.KindUnavailable, "stripe down")}
	svc := NewService(orders, provider, checkoutConfig(), nil)

	_, err := svc.CreateCheckoutSession(context.Background(), orderID)
	require.True(t, apperr.IsUnavailable(err))
}

func TestHandleProviderEventBadSignature(t *testing.T) {
	orders := newFakeOrders()
	provider := &fakeProvider{verifyErr: apperr.New(apperr.KindUnauthenticated, "bad signature")}
	log := &recordingLog{}
	svc := NewService(orders, provider, checkoutConfig(), log)

	err := svc.HandleProviderEvent(context.Background(), []byte(`{}`), "t=1,v1=bogus")
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))

	// Rejected before interpretation: no lookup, no mutation, no log.
	require.Zero(t, orders.getCalls)
	require.Zero(t, orders.setCalls)
	require.Empty(t, log.entries)
}

func TestHandleProviderEventIgnoresOtherKinds(t *testing.T) {
	orders := newFakeOrders()
	provider := &fakeProvider{event: &ports.ProviderEvent{ID: "evt_1", Type: "invoice.paid"}}
	log := &recordingLog{}
	svc := NewService(orders, provider, checkoutConfig(), log)

	require.NoError(t, svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig"))
	require.Zero(t, orders.setCalls)
	require.Len(t, log.entries, 1)
	require.Equal(t, eventlog.OutcomeIgnored, log.entries[0].Outcome)
}

func TestHandleProviderEventEmptyReference(t *testing.T) {
	orders := newFakeOrders()
	provider := &fakeProvider{event: &ports.ProviderEvent{ID: "evt_1", Type: ports.EventCheckoutCompleted}}
	log := &recordingLog{}
	svc := NewService(orders, provider, checkoutConfig(), log)

	require.NoError(t, svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig"))
	require.Zero(t, orders.setCalls)
	require.Len(t, log.entries, 1)
	require.Equal(t, eventlog.OutcomeNoReference, log.entries[0].Outcome)
}

func TestHandleProviderEventUnparseableReference(t *testing.T) {
	orders := newFakeOrders()
	provider := &fakeProvider{event: &ports.ProviderEvent{
		ID:        "evt_1",
		Type:      ports.EventCheckoutCompleted,
		Reference: "not-an-order-id",
	}}
	log := &recordingLog{}
	svc := NewService(orders, provider, checkoutConfig(), log)

	require.NoError(t, svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig"))
	require.Zero(t, orders.setCalls)
	require.Len(t, log.entries, 1)
	require.Equal(t, eventlog.OutcomeBadReference, log.entries[0].Outcome)
}

func TestHandleProviderEventUnknownOrderIsAcknowledged(t *testing.T) {
	orders := newFakeOrders()
	provider := &fakeProvider{event: &ports.ProviderEvent{
		ID:        "evt_1",
		Type:      ports.EventCheckoutCompleted,
		Reference: uuid.NewString(),
	}}
	log := &recordingLog{}
	svc := NewService(orders, provider, checkoutConfig(), log)

	require.NoError(t, svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig"))
	require.Equal(t, 1, orders.setCalls)
	require.Len(t, log.entries, 1)
	require.Equal(t, eventlog.OutcomeUnknownOrder, log.entries[0].Outcome)
}

func TestHandleProviderEventFulfillsOrder(t *testing.T) {
	orders := newFakeOrders()
	orderID := uuid.NewString()
	orders.add(orderID, "200.00", "PENDING")

	provider := &fakeProvider{event: &ports.ProviderEvent{
		ID:        "evt_1",
		Type:      ports.EventCheckoutCompleted,
		Reference: orderID,
	}}
	log := &recordingLog{}
	svc := NewService(orders, provider, checkoutConfig(), log)

	require.NoError(t, svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig"))
	require.Equal(t, "PAID", orders.orders[orderID].Status)
	require.Equal(t, eventlog.OutcomeFulfilled, log.entries[0].Outcome)
}

func TestHandleProviderEventReplayConverges(t *testing.T) {
	orders := newFakeOrders()
	orderID := uuid.NewString()
	orders.add(orderID, "200.00", "PENDING")

	provider := &fakeProvider{event: &ports.ProviderEvent{
		ID:        "evt_1",
		Type:      ports.EventCheckoutCompleted,
		Reference: orderID,
	}}
	svc := NewService(orders, provider, checkoutConfig(), nil)
	ctx := context.Background()

	require.NoError(t, svc.HandleProviderEvent(ctx, []byte(`{}`), "sig"))
	require.NoError(t, svc.HandleProviderEvent(ctx, []byte(`{}`), "sig"))
	require.Equal(t, "PAID", orders.orders[orderID].Status)
	require.Equal(t, 2, orders.setCalls)
}

func TestHandleProviderEventOrderServiceDownPropagates(t *testing.T) {
	orders := newFakeOrders()
	orders.setErr = apperr.New(apperr.KindUnavailable, "order service unreachable")

	provider := &fakeProvider{event: &ports.ProviderEvent{
		ID:        "evt_1",
		Type:      ports.EventCheckoutCompleted,
		Reference: uuid.NewString(),
	}}
	log := &recordingLog{}
	svc := NewService(orders, provider, checkoutConfig(), log)

	err := svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig")
	require.True(t, apperr.IsUnavailable(err), "failure must propagate so the provider retries")
	require.Equal(t, eventlog.OutcomeDeferred, log.entries[0].Outcome)
	require.NotEmpty(t, log.entries[0].Error)
}

func TestHandleProviderEventNilLogIsSafe(t *testing.T) {
	orders := newFakeOrders()
	orderID := uuid.NewString()
	orders.add(orderID, "200.00", "PENDING")

	provider := &fakeProvider{event: &ports.ProviderEvent{
		ID:        "evt_1",
		Type:      ports.EventCheckoutCompleted,
		Reference: orderID,
	}}
	svc := NewService(orders, provider, checkoutConfig(), nil)

	require.NoError(t, svc.HandleProviderEvent(context.Background(), []byte(`{}`), "sig"))
}
