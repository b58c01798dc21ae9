// Package cache provides a small generic cache layer used to avoid
// re-fetching remote drafts the user just looked up.
package cache

import (
	"context"
	"time"
)

// Manager is the cache contract. Keys are string-like so the go-cache
// backend can use them directly.
type Manager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K)
	Flush(ctx context.Context)
}
