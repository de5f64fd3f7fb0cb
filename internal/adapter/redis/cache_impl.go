package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/scrapeflow/internal/repository"
)

// CacheRepoImpl provides a concrete implementation for the CacheRepository
// interface using Redis string values with key-level TTL.
type CacheRepoImpl struct {
	client *redis.Client
}

// NewCacheRepo creates a new instance of CacheRepoImpl.
func NewCacheRepo(client *redis.Client) *CacheRepoImpl {
	return &CacheRepoImpl{client: client}
}

// Get returns the value at key, mapping redis.Nil to ErrCacheMiss.
func (r *CacheRepoImpl) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", repository.ErrCacheMiss
	}
	return val, err
}

// Set stores value at key with the given TTL.
func (r *CacheRepoImpl) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
