package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuotaRepoImpl provides a concrete implementation for the QuotaRepository
// interface using Redis atomic counters.
type QuotaRepoImpl struct {
	client *redis.Client
}

// NewQuotaRepo creates a new instance of QuotaRepoImpl.
func NewQuotaRepo(client *redis.Client) *QuotaRepoImpl {
	return &QuotaRepoImpl{client: client}
}

// Increment atomically increments the counter. INCR treats a missing key as
// zero, so no initialization step is needed.
func (r *QuotaRepoImpl) Increment(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

// Decrement atomically decrements the counter.
func (r *QuotaRepoImpl) Decrement(ctx context.Context, key string) error {
	return r.client.Decr(ctx, key).Err()
}

// ExpireAt schedules the key for removal at the given time.
func (r *QuotaRepoImpl) ExpireAt(ctx context.Context, key string, at time.Time) error {
	return r.client.ExpireAt(ctx, key, at).Err()
}

// Get returns the current counter value, or zero if the key is absent.
func (r *QuotaRepoImpl) Get(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
