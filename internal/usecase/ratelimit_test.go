package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/scrapeflow/pkg/utils"
)

func TestRateLimiter_QuotaSequence(t *testing.T) {
	const limit = 5
	repo := newFakeQuotaRepo()
	limiter := NewRateLimiter(repo, limit)
	ctx := context.Background()

	for i := 1; i <= limit; i++ {
		allowed, used, err := limiter.TryAcquire(ctx)
		require.NoError(t, err)
		assert.True(t, allowed, "call %d should be allowed", i)
		assert.Equal(t, int64(i), used)
	}

	// Calls limit+1 and beyond are rejected, and the rejecting increment is
	// not reversed: the counter keeps climbing.
	for i := limit + 1; i <= limit+3; i++ {
		allowed, used, err := limiter.TryAcquire(ctx)
		require.NoError(t, err)
		assert.False(t, allowed, "call %d should be rejected", i)
		assert.Equal(t, int64(i), used)
	}
}

func TestRateLimiter_ReleaseRefundsSlot(t *testing.T) {
	repo := newFakeQuotaRepo()
	limiter := NewRateLimiter(repo, 1)
	ctx := context.Background()

	allowed, _, err := limiter.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, err = limiter.TryAcquire(ctx)
	require.NoError(t, err)
	require.False(t, allowed)

	// Two refunds: one for the rejected probe, one for a failed remote call.
	require.NoError(t, limiter.Release(ctx))
	require.NoError(t, limiter.Release(ctx))

	allowed, used, err := limiter.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(1), used)
}

func TestRateLimiter_FirstIncrementSchedulesMidnightExpiry(t *testing.T) {
	repo := newFakeQuotaRepo()
	limiter := NewRateLimiter(repo, 10)
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	limiter.now = fixedTime(now)
	ctx := context.Background()

	_, _, err := limiter.TryAcquire(ctx)
	require.NoError(t, err)
	_, _, err = limiter.TryAcquire(ctx)
	require.NoError(t, err)

	key := quotaKeyPrefix + utils.DayKey(now)
	expiry, ok := repo.expiries[key]
	require.True(t, ok, "expiry must be set on the first increment of the day")
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), expiry)
	assert.Len(t, repo.expiries, 1)
}

func TestRateLimiter_DayRolloverResetsBudget(t *testing.T) {
	repo := newFakeQuotaRepo()
	limiter := NewRateLimiter(repo, 1)
	today := time.Date(2025, 6, 15, 23, 50, 0, 0, time.UTC)
	limiter.now = fixedTime(today)
	ctx := context.Background()

	allowed, _, err := limiter.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, allowed)
	allowed, _, err = limiter.TryAcquire(ctx)
	require.NoError(t, err)
	require.False(t, allowed)

	limiter.now = fixedTime(today.Add(20 * time.Minute))
	allowed, used, err := limiter.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, allowed, "a new day starts a fresh counter")
	assert.Equal(t, int64(1), used)
}

func TestRateLimiter_Status(t *testing.T) {
	repo := newFakeQuotaRepo()
	limiter := NewRateLimiter(repo, 90)
	ctx := context.Background()

	status, err := limiter.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), status.Used)
	assert.Equal(t, int64(90), status.Remaining)
	assert.Equal(t, int64(90), status.Limit)

	for i := 0; i < 3; i++ {
		_, _, err := limiter.TryAcquire(ctx)
		require.NoError(t, err)
	}

	status, err = limiter.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), status.Used)
	assert.Equal(t, int64(87), status.Remaining)
}
