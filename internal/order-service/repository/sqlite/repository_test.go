package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acmeshop/storefront/internal/order-service/domain"
	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newPendingOrder() *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:          uuid.NewString(),
		ProductID:   "p-1",
		Quantity:    2,
		TotalAmount: decimal.RequireFromString("200.00"),
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	want := newPendingOrder()
	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.GetByID(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, got.Status)
	require.True(t, want.TotalAmount.Equal(got.TotalAmount))
	require.Equal(t, want.Quantity, got.Quantity)
}

func TestGetUnknownIsNotFound(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	require.True(t, apperr.IsNotFound(err))
}

func TestUpdateStatusTransitionsPending(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	o := newPendingOrder()
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.UpdateStatus(ctx, o.ID, domain.StatusPaid, time.Now()))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, got.Status)
}

func TestUpdateStatusIsNoOpOnTerminalOrder(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	o := newPendingOrder()
	require.NoError(t, repo.Create(ctx, o))
	require.NoError(t, repo.UpdateStatus(ctx, o.ID, domain.StatusPaid, time.Now()))

	// Re-applying the same transition reports success.
	require.NoError(t, repo.UpdateStatus(ctx, o.ID, domain.StatusPaid, time.Now()))

	// A conflicting transition is also swallowed; terminal states are
	// never overwritten.
	require.NoError(t, repo.UpdateStatus(ctx, o.ID, domain.StatusFailed, time.Now()))

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, got.Status)
}

func TestUpdateStatusUnknownOrderIsNotFound(t *testing.T) {
	repo := openTestRepo(t)

	err := repo.UpdateStatus(context.Background(), uuid.NewString(), domain.StatusPaid, time.Now())
	require.True(t, apperr.IsNotFound(err))
}

func TestUpdateStatusConcurrentDeliveriesConverge(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	o := newPendingOrder()
	require.NoError(t, repo.Create(ctx, o))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.UpdateStatus(ctx, o.ID, domain.StatusPaid, time.Now())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPaid, got.Status)
}

func TestListNewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	older := newPendingOrder()
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, older))

	newer := newPendingOrder()
	require.NoError(t, repo.Create(ctx, newer))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, newer.ID, orders[0].ID)
}
