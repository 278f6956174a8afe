// Package cache defines the key-value cache port used for catalog
// read-through caching, plus Redis and in-memory implementations.
package cache

import (
	"context"
	"time"
)

// Cache is the port for a TTL key-value cache.
//
// Get returns "" with a nil error on a miss; callers treat any returned
// error the same as a miss so a cache outage degrades to always-miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	GenerateKey(operation, key string) string
}
