package repository

import (
	"context"
	"time"
)

// CacheRepository defines the interface for the key/value store backing the
// day-scoped result cache. Values are opaque strings; callers own encoding.
type CacheRepository interface {
	// Get returns the value stored at key, or ErrCacheMiss if absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value at key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
