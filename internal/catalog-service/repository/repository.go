// Package repository is the port for the catalog store. The app layer
// depends on this abstraction, not on SQLite directly.
package repository

import (
	"context"

	"github.com/acmeshop/storefront/internal/catalog-service/domain"
)

// Repository is the durable product store owned by the catalog service.
type Repository interface {
	// GetByID returns the product or a NotFound error.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns every product.
	List(ctx context.Context) ([]domain.Product, error)
	// Create persists a new product under its pre-assigned ID.
	Create(ctx context.Context, p *domain.Product) error
}
