// Package app implements the catalog service use cases: product reads
// through the cache and product writes that invalidate it.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/acmeshop/storefront/internal/catalog-service/domain"
	"github.com/acmeshop/storefront/internal/catalog-service/repository"
	"github.com/acmeshop/storefront/internal/pkg/cache"
)

const cacheOp = "product"

// Service owns the catalog store and the read-through cache in front
// of it.
type Service struct {
	repo  repository.Repository
	cache cache.Cache
	ttl   time.Duration
}

// NewService builds the catalog service. ttl bounds how stale a cached
// product can get if an invalidation is ever lost.
func NewService(repo repository.Repository, c cache.Cache, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: c, ttl: ttl}
}

// List returns every product straight from the store. Bulk reads are
// not cached.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Get returns the product from the cache when present and unexpired,
// falling back to the store and repopulating the cache on a miss.
// Cache failures degrade to a store read; they are never fatal.
// Missing products are not negatively cached.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	key := s.cache.GenerateKey(cacheOp, id)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed, falling back to store", "product_id", id, "error", err)
	} else if cached != "" {
		var p domain.Product
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
		slog.WarnContext(ctx, "dropping undecodable cache entry", "product_id", id)
		_ = s.cache.Delete(ctx, key)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
			slog.WarnContext(ctx, "cache populate failed", "product_id", id, "error", err)
		}
	}
	return p, nil
}

// Create validates and persists a new product, then invalidates its
// cache key before returning so no stale entry survives the write.
func (s *Service) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created := *p
	created.ID = uuid.NewString()
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, err
	}

	key := s.cache.GenerateKey(cacheOp, created.ID)
	if err := s.cache.Delete(ctx, key); err != nil {
		// The TTL backstop bounds staleness if the delete was lost.
		slog.WarnContext(ctx, "cache invalidation failed", "product_id", created.ID, "error", err)
	}

	slog.InfoContext(ctx, "product created", "product_id", created.ID, "name", created.Name)
	return &created, nil
}
