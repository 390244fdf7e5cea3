// Package cache holds pre-rendered listing responses for a short TTL.
// Two stores exist: an in-process map for single-instance/dev runs and
// a Redis-backed one for multi-instance deployments.
package cache

import (
	"context"
	"time"
)

// Set's ttl caps the entry's lifetime below the store default; a
// non-positive ttl means the default applies unchanged. Listing pages
// pass the time until their earliest end_time so a finished event
// cannot outlive its window in the cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
