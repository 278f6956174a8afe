// Package repository is the port for the order store.
package repository

import (
	"context"
	"time"

	"github.com/acmeshop/storefront/internal/order-service/domain"
)

// Repository is the durable order store owned by the order service.
type Repository interface {
	// Create persists a new order under its pre-assigned ID.
	Create(ctx context.Context, o *domain.Order) error
	// GetByID returns the order or a NotFound error.
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns every order, newest first.
	List(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus applies a terminal transition to a PENDING order.
	// It returns NotFound for an unknown id and succeeds without
	// writing when the order is already terminal, so re-deliveries
	// converge instead of erroring.
	UpdateStatus(ctx context.Context, id string, status domain.Status, at time.Time) error
}
