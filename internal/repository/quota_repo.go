package repository

import (
	"context"
	"time"
)

// QuotaRepository defines the interface for the shared counter backing the
// daily search budget. Increments must be atomic under concurrent access.
type QuotaRepository interface {
	// Increment atomically increments the counter for key and returns the
	// new value. A missing key counts from zero.
	Increment(ctx context.Context, key string) (int64, error)
	// Decrement atomically decrements the counter for key, used to refund a
	// slot when the guarded remote call never produced a result.
	Decrement(ctx context.Context, key string) error
	// ExpireAt schedules the key to be removed at the given time.
	ExpireAt(ctx context.Context, key string, at time.Time) error
	// Get returns the current counter value, or zero if the key is absent.
	Get(ctx context.Context, key string) (int64, error)
}
