package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"regwiz/internal/log"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 15 * time.Minute
)

// InMemory is the go-cache backed Manager implementation.
type InMemory[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemory creates an in-memory cache. useCase labels log entries so
// cache hits from different call sites stay distinguishable.
func NewInMemory[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemory[K, V] {
	return &InMemory[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

var _ Manager[string, any] = (*InMemory[string, any])(nil)

// Get retrieves an item by key.
func (c *InMemory[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zero V

	value, found := c.cache.Get(string(key))
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatUI, "wrong type assertion when getting cached value", "useCase", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatUI, "cache hit", "useCase", c.useCase, "key", key)
	return v, true
}

// Set stores an item under key for ttl.
func (c *InMemory[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Delete removes the given keys.
func (c *InMemory[K, V]) Delete(ctx context.Context, keys ...K) {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}
}

// Flush drops every cached item.
func (c *InMemory[K, V]) Flush(ctx context.Context) {
	c.cache.Flush()
}
