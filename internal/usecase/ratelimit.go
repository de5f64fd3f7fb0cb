package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/scrapeflow/internal/entity"
	"github.com/user/scrapeflow/internal/repository"
	"github.com/user/scrapeflow/pkg/metrics"
	"github.com/user/scrapeflow/pkg/utils"
)

const quotaKeyPrefix = "search_api_limit:"

// RateLimiter enforces the shared daily budget on search backend calls.
// The counter is keyed by UTC date and expires at the next midnight, so an
// idle day's counter cannot leak past its validity window.
type RateLimiter struct {
	quota repository.QuotaRepository
	limit int64
	now   func() time.Time
}

// NewRateLimiter creates a rate limiter over the given counter store.
func NewRateLimiter(quota repository.QuotaRepository, limit int64) *RateLimiter {
	return &RateLimiter{
		quota: quota,
		limit: limit,
		now:   time.Now,
	}
}

func (r *RateLimiter) key(t time.Time) string {
	return quotaKeyPrefix + utils.DayKey(t)
}

// TryAcquire consumes one slot of today's budget and reports whether the
// call may proceed. When the post-increment value crosses the limit the
// slot stays consumed: under-counting the remaining budget is preferable to
// letting retries quietly exceed a hard external quota.
func (r *RateLimiter) TryAcquire(ctx context.Context) (bool, int64, error) {
	now := r.now()
	key := r.key(now)

	used, err := r.quota.Increment(ctx, key)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment quota counter: %w", err)
	}
	if used == 1 {
		if err := r.quota.ExpireAt(ctx, key, utils.NextMidnight(now)); err != nil {
			slog.Warn("Failed to set expiry on quota counter", "key", key, "error", err)
		}
	}

	metrics.QuotaUsed.Set(float64(used))
	return used <= r.limit, used, nil
}

// Release refunds one slot. Callers invoke it only when the guarded remote
// call failed for a reason unrelated to the quota, so the budget is not
// consumed by a call that never reached the remote service.
func (r *RateLimiter) Release(ctx context.Context) error {
	return r.quota.Decrement(ctx, r.key(r.now()))
}

// Status returns a read-only snapshot of today's usage.
func (r *RateLimiter) Status(ctx context.Context) (entity.QuotaStatus, error) {
	used, err := r.quota.Get(ctx, r.key(r.now()))
	if err != nil {
		return entity.QuotaStatus{}, fmt.Errorf("failed to read quota counter: %w", err)
	}
	remaining := r.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return entity.QuotaStatus{Used: used, Remaining: remaining, Limit: r.limit}, nil
}
