package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/scrapeflow/internal/entity"
	"github.com/user/scrapeflow/internal/repository"
	"github.com/user/scrapeflow/pkg/utils"
)

const (
	urlListKeyPrefix = "search_urls:"
	pageKeyPrefix    = "page:"
)

// ResultCache stores intermediate pipeline results with day-scoped keys:
// the accumulated URL list per search query, and scraped content per URL.
// Every entry expires at the next UTC midnight, matching the daily quota
// window. A page cached while resolving one query is reusable for any other
// query issued the same day.
type ResultCache struct {
	store repository.CacheRepository
	now   func() time.Time
}

// NewResultCache creates a result cache over the given key/value store.
func NewResultCache(store repository.CacheRepository) *ResultCache {
	return &ResultCache{
		store: store,
		now:   time.Now,
	}
}

func (c *ResultCache) urlListKey(query string, t time.Time) string {
	return urlListKeyPrefix + utils.DayKey(t) + ":" + utils.HashURL(query)
}

func (c *ResultCache) pageKey(url string, t time.Time) string {
	return pageKeyPrefix + utils.DayKey(t) + ":" + utils.HashURL(url)
}

// GetURLs returns today's accumulated URL list for the query. A missing or
// undecodable entry is an empty list, never an error.
func (c *ResultCache) GetURLs(ctx context.Context, query string) []string {
	raw, err := c.store.Get(ctx, c.urlListKey(query, c.now()))
	if err != nil {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		slog.Warn("Corrupt URL list cache entry, treating as miss", "query", query, "error", err)
		return nil
	}
	return urls
}

// AppendURLs concatenates newURLs onto today's stored list and writes the
// full list back with a fresh midnight-relative expiry.
//
// This is a read-modify-write without a lock: concurrent callers for the
// same query may each write their own view and the last writer wins. URLs
// are additive and idempotent to re-add, so a lost update can only omit a
// freshly discovered URL until the next page fetch re-adds it. Accepted
// limitation.
func (c *ResultCache) AppendURLs(ctx context.Context, query string, newURLs []string) error {
	if len(newURLs) == 0 {
		return nil
	}
	now := c.now()
	urls := append(c.GetURLs(ctx, query), newURLs...)
	data, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("failed to encode URL list: %w", err)
	}
	return c.store.Set(ctx, c.urlListKey(query, now), string(data), utils.UntilMidnight(now))
}

// GetPage returns today's cached content for url, or nil on a miss. A
// corrupt entry is treated as a miss, not a fatal error.
func (c *ResultCache) GetPage(ctx context.Context, url string) *entity.ScrapedPage {
	raw, err := c.store.Get(ctx, c.pageKey(url, c.now()))
	if err != nil {
		return nil
	}
	var page entity.ScrapedPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		slog.Warn("Corrupt page cache entry, treating as miss", "url", url, "error", err)
		return nil
	}
	return &page
}

// PutPage stores the scraped content for url until the next UTC midnight.
// Cached pages are immutable once written; a fresh scrape overwrites the
// entry, it never patches it.
func (c *ResultCache) PutPage(ctx context.Context, url string, page *entity.ScrapedPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode scraped page: %w", err)
	}
	now := c.now()
	return c.store.Set(ctx, c.pageKey(url, now), string(data), utils.UntilMidnight(now))
}
