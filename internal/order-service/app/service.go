// Package app implements the order service use cases: creation with a
// catalog price snapshot and the idempotent status transition.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/acmeshop/storefront/internal/order-service/domain"
	"github.com/acmeshop/storefront/internal/order-service/repository"
	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// ProductSummary is the slice of the catalog product the order service
// needs: enough to snapshot the price at creation time.
type ProductSummary struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// CatalogGateway is the outbound port to the catalog service. Lookups
// go through the catalog's own cache; the order service never reads the
// catalog store directly.
type CatalogGateway interface {
	GetProduct(ctx context.Context, id string) (*ProductSummary, error)
}

// Service owns the order store and the order state machine.
type Service struct {
	repo    repository.Repository
	catalog CatalogGateway
	now     func() time.Time
}

// NewService builds the order service around its store and the catalog
// gateway.
func NewService(repo repository.Repository, catalog CatalogGateway) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// Create validates the request, snapshots the product's current price
// and persists a PENDING order. The total is computed exactly once;
// later catalog price changes never touch it.
func (s *Service) Create(ctx context.Context, productID string, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "quantity must be positive, got %d", quantity)
	}
	if productID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "product id is required")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &domain.Order{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		Quantity:    quantity,
		TotalAmount: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"product_id", order.ProductID,
		"quantity", order.Quantity,
		"total_amount", order.TotalAmount.String(),
	)
	return order, nil
}

// Get returns a single order.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every order.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// SetStatus applies a terminal transition. Re-applying a transition to
// an already terminal order is a successful no-op regardless of whether
// the requested state matches, which is what lets the payment provider
// deliver the same event more than once.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) error {
	if !status.Terminal() {
		return apperr.New(apperr.KindInvalidArgument, "cannot transition order to %s", status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		return err
	}

	slog.InfoContext(ctx, "order status set", "order_id", id, "status", string(status))
	return nil
}
