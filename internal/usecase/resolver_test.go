package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(search *fakeSearchBackend, limit int64) (*URLResolver, *fakeQuotaRepo, *ResultCache) {
	quota := newFakeQuotaRepo()
	cache := NewResultCache(newFakeCacheRepo())
	limiter := NewRateLimiter(quota, limit)
	return NewURLResolver(search, limiter, cache), quota, cache
}

func TestURLResolver_ResolvesAcrossPages(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1:  {"https://a", "https://b", "https://c", "https://d", "https://e", "https://f", "https://g", "https://h", "https://i", "https://j"},
		11: {"https://k", "https://l"},
	}}
	resolver, _, _ := newResolver(search, 90)

	urls, err := resolver.Resolve(context.Background(), "coffee", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, len(urls))
	assert.Equal(t, "https://a", urls[0])
	assert.Equal(t, "https://l", urls[11])
	assert.Equal(t, 2, search.calls)
}

func TestURLResolver_SecondResolutionHitsCacheOnly(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1: {"https://a", "https://b", "https://c"},
	}}
	resolver, _, _ := newResolver(search, 90)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "coffee", 3)
	require.NoError(t, err)
	require.Equal(t, 3, len(first))
	require.Equal(t, 1, search.calls)

	second, err := resolver.Resolve(ctx, "coffee", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, search.calls, "a satisfied accumulator must not issue further search calls")
}

func TestURLResolver_ShortPageEndsResolution(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1: {"https://a", "https://b"},
	}}
	resolver, _, _ := newResolver(search, 90)

	urls, err := resolver.Resolve(context.Background(), "coffee", 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a", "https://b"}, urls)
	assert.Equal(t, 1, search.calls, "fewer than a full page means end of results")
}

func TestURLResolver_BackendFailureRefundsSlotAndReturnsPartial(t *testing.T) {
	search := &fakeSearchBackend{err: errors.New("boom")}
	resolver, quota, _ := newResolver(search, 90)

	urls, err := resolver.Resolve(context.Background(), "coffee", 5)
	require.NoError(t, err, "resolution is best-effort, the failure is not surfaced")
	assert.Empty(t, urls)

	// The consumed slot was refunded since the call produced nothing.
	for _, v := range quota.counters {
		assert.Equal(t, int64(0), v)
	}
}

func TestURLResolver_QuotaExhaustedWithNothingAccumulated(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{1: {"https://a"}}}
	resolver, quota, _ := newResolver(search, 90)

	// Pre-consume the whole budget, as another run would have.
	ctx := context.Background()
	for i := 0; i < 90; i++ {
		_, err := quota.Increment(ctx, quotaKeyForToday())
		require.NoError(t, err)
	}

	urls, err := resolver.Resolve(ctx, "coffee", 5)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Nil(t, urls)
	assert.Equal(t, 0, search.calls, "no search call may be attempted at the limit")
}

func TestURLResolver_QuotaExhaustedMidLoopReturnsPartial(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1: {"https://a", "https://b", "https://c", "https://d", "https://e", "https://f", "https://g", "https://h", "https://i", "https://j"},
	}}
	resolver, _, _ := newResolver(search, 1)

	urls, err := resolver.Resolve(context.Background(), "coffee", 15)
	require.NoError(t, err)
	assert.Equal(t, 10, len(urls), "the page fetched before exhaustion is kept")
	assert.Equal(t, 1, search.calls)
}

func TestURLResolver_DeduplicatesPreservingOrder(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1:  {"https://a", "https://b", "https://a", "https://c", "https://d", "https://e", "https://f", "https://g", "https://h", "https://b"},
		11: {"https://b", "https://i"},
	}}
	resolver, _, _ := newResolver(search, 90)

	urls, err := resolver.Resolve(context.Background(), "coffee", 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a", "https://b", "https://c", "https://d", "https://e", "https://f", "https://g", "https://h", "https://i"}, urls)
}

func TestURLResolver_PersistsProgressAfterEveryPage(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1: {"https://a", "https://b"},
	}}
	resolver, _, cache := newResolver(search, 90)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, "coffee", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a", "https://b"}, cache.GetURLs(ctx, "coffee"))
}
