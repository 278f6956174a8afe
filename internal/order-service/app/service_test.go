package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acmeshop/storefront/internal/order-service/domain"
	"github.com/acmeshop/storefront/internal/order-service/repository/sqlite"
	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// fakeCatalog serves products from a map and lets tests mutate prices
// between calls.
type fakeCatalog struct {
	products map[string]ProductSummary
	err      error
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (*ProductSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "product %s not found", id)
	}
	return &p, nil
}

func newTestService(t *testing.T, catalog *fakeCatalog) *Service {
	t.Helper()
	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewService(repo, catalog)
}

func catalogWith(id, price string) *fakeCatalog {
	return &fakeCatalog{products: map[string]ProductSummary{
		id: {ID: id, Name: "Linen Shirt", Price: decimal.RequireFromString(price)},
	}}
}

func TestCreateSnapshotsPrice(t *testing.T) {
	catalog := catalogWith("p-1", "100.00")
	svc := newTestService(t, catalog)
	ctx := context.Background()

	order, err := svc.Create(ctx, "p-1", 2)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, order.Status)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("200.00")))

	// A later price change must not touch the stored total.
	catalog.products["p-1"] = ProductSummary{ID: "p-1", Price: decimal.RequireFromString("999.00")}

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, got.TotalAmount.Equal(decimal.RequireFromString("200.00")))
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(t, catalogWith("p-1", "100.00"))

	for _, qty := range []int{0, -1} {
		_, err := svc.Create(context.Background(), "p-1", qty)
		require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	}
}

func TestCreateUnknownProduct(t *testing.T) {
	svc := newTestService(t, catalogWith("p-1", "100.00"))

	_, err := svc.Create(context.Background(), "ghost", 1)
	require.True(t, apperr.IsNotFound(err))
}

func TestCreateCatalogUnavailable(t *testing.T) {
	catalog := &fakeCatalog{err: apperr.New(apperr.KindUnavailable, "catalog service unreachable")}
	svc := newTestService(t, catalog)

	_, err := svc.Create(context.Background(), "p-1", 1)
	require.True(t, apperr.IsUnavailable(err))
}

func TestSetStatusIsIdempotentOnTerminalOrders(t *testing.T) {
	svc := newTestService(t, catalogWith("p-1", "100.00"))
	ctx := context.Background()

	order, err := svc.Create(ctx, "p-1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, order.ID, domain.StatusPaid))
	require.NoError(t, svc.SetStatus(ctx, order.ID, domain.StatusPaid))
	require.NoError(t, svc.SetStatus(ctx, order.ID, domain.StatusFailed))

	got, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, got.Status, "first terminal transition wins")
}

func TestSetStatusRejectsNonTerminalTarget(t *testing.T) {
	svc := newTestService(t, catalogWith("p-1", "100.00"))
	ctx := context.Background()

	order, err := svc.Create(ctx, "p-1", 1)
	require.NoError(t, err)

	err = svc.SetStatus(ctx, order.ID, domain.StatusPending)
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestSetStatusUnknownOrder(t *testing.T) {
	svc := newTestService(t, catalogWith("p-1", "100.00"))

	err := svc.SetStatus(context.Background(), "no-such-order", domain.StatusPaid)
	require.True(t, apperr.IsNotFound(err))
}
