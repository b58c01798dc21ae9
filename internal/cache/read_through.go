package cache

import (
	"context"
	"time"
)

// ReadThrough wraps a Manager with a fetch function: Get serves from the
// cache when possible and falls back to the fetcher, caching its result.
type ReadThrough[K ~string, V any] struct {
	cache Manager[K, V]
	fetch func(ctx context.Context, key K) (V, error)
}

// NewReadThrough builds a read-through cache over fetch.
func NewReadThrough[K ~string, V any](cache Manager[K, V], fetch func(ctx context.Context, key K) (V, error)) *ReadThrough[K, V] {
	return &ReadThrough[K, V]{cache: cache, fetch: fetch}
}

// Get returns the cached value for key, fetching and caching it on a miss.
// Fetch errors are not cached.
func (r *ReadThrough[K, V]) Get(ctx context.Context, key K, ttl time.Duration) (V, error) {
	if value, ok := r.cache.Get(ctx, key); ok {
		return value, nil
	}

	value, err := r.fetch(ctx, key)
	if err != nil {
		return value, err
	}

	r.cache.Set(ctx, key, value, ttl)
	return value, nil
}

// Invalidate drops the cached value for key.
func (r *ReadThrough[K, V]) Invalidate(ctx context.Context, key K) {
	r.cache.Delete(ctx, key)
}
