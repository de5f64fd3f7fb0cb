package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/user/scrapeflow/internal/entity"
	"github.com/user/scrapeflow/internal/repository"
	"github.com/user/scrapeflow/pkg/metrics"
)

// PageScraper fetches page content through the headless-browser collaborator
// with a day-scoped cache in front of it. It never fails the pipeline: a
// fetch failure is recorded inline on the page and cached like a success, so
// a broken URL is not re-attempted for the rest of the day.
type PageScraper struct {
	browser repository.BrowserFetcher
	cache   *ResultCache
	timeout time.Duration
}

// NewPageScraper creates a new scraper with a bounded per-page timeout.
func NewPageScraper(browser repository.BrowserFetcher, cache *ResultCache, timeout time.Duration) *PageScraper {
	return &PageScraper{browser: browser, cache: cache, timeout: timeout}
}

// Scrape returns the content for url, from cache when present.
func (s *PageScraper) Scrape(ctx context.Context, url string) *entity.ScrapedPage {
	if page := s.cache.GetPage(ctx, url); page != nil {
		metrics.ScrapesTotal.WithLabelValues("cached").Inc()
		slog.Info("Using cached page content", "url", url)
		return normalizePage(page)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page, err := s.browser.Fetch(fetchCtx, url)
	if err != nil {
		metrics.ScrapesTotal.WithLabelValues("failure").Inc()
		slog.Error("Page fetch failed", "url", url, "error", err)
		page = &entity.ScrapedPage{URL: url, Error: scrapeErrorTag(err)}
	} else {
		metrics.ScrapesTotal.WithLabelValues("success").Inc()
	}
	page = normalizePage(page)

	if err := s.cache.PutPage(ctx, url, page); err != nil {
		slog.Warn("Failed to cache scraped page", "url", url, "error", err)
	}
	return page
}

// scrapeErrorTag reduces a fetch failure to a short diagnostic tag suitable
// for embedding in the page record.
func scrapeErrorTag(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "scrape timed out"
	}
	return "scrape failed"
}

// normalizePage makes missing optional fields empty rather than absent, so
// cached copies and fresh scrapes serialize identically.
func normalizePage(page *entity.ScrapedPage) *entity.ScrapedPage {
	if page.H1 == nil {
		page.H1 = []string{}
	}
	if page.H2 == nil {
		page.H2 = []string{}
	}
	if page.Links == nil {
		page.Links = []string{}
	}
	return page
}
