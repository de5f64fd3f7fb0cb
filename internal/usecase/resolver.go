package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/scrapeflow/internal/repository"
	"github.com/user/scrapeflow/pkg/metrics"
)

// searchPageSize is how many results the search backend returns per call.
const searchPageSize = 10

// URLResolver assembles a deduplicated, order-preserving list of candidate
// URLs for a query by driving paginated search calls through the rate
// limiter and the result cache.
type URLResolver struct {
	search  repository.SearchBackend
	limiter *RateLimiter
	cache   *ResultCache
}

// NewURLResolver creates a new resolver.
func NewURLResolver(search repository.SearchBackend, limiter *RateLimiter, cache *ResultCache) *URLResolver {
	return &URLResolver{search: search, limiter: limiter, cache: cache}
}

// Resolve returns up to want URLs for the query, in discovery order.
//
// Resolution is best-effort once anything has been accumulated: a search
// backend failure refunds the consumed quota slot and returns the partial
// list, and quota exhaustion mid-loop returns the partial list too. Only
// quota exhaustion with an empty accumulator fails outright, since no
// partial URLs exist to fall back on. The accumulator is persisted to the
// cache after every page so partial progress survives a later failure.
func (r *URLResolver) Resolve(ctx context.Context, query string, want int) ([]string, error) {
	urls := make([]string, 0, want)
	seen := make(map[string]struct{})
	for _, u := range r.cache.GetURLs(ctx, query) {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	if len(urls) > 0 {
		slog.Info("Loaded cached URLs for query", "query", query, "count", len(urls))
	}

	for page := 0; len(urls) < want; page++ {
		allowed, used, err := r.limiter.TryAcquire(ctx)
		if err != nil {
			if len(urls) > 0 {
				slog.Error("Quota check failed, returning partial URL list", "error", err)
				break
			}
			return nil, fmt.Errorf("failed to acquire search quota: %w", err)
		}
		if !allowed {
			if len(urls) > 0 {
				slog.Warn("Search quota exhausted, returning partial URL list", "used", used)
				break
			}
			return nil, ErrQuotaExceeded
		}

		results, err := r.search.Search(ctx, query, page*searchPageSize+1)
		if err != nil {
			metrics.SearchCallsTotal.WithLabelValues("failure").Inc()
			// The quota slot bought nothing, refund it.
			if relErr := r.limiter.Release(ctx); relErr != nil {
				slog.Warn("Failed to release quota slot", "error", relErr)
			}
			slog.Error("Search backend call failed, stopping resolution", "query", query, "page", page+1, "error", err)
			break
		}
		metrics.SearchCallsTotal.WithLabelValues("success").Inc()

		fresh := make([]string, 0, len(results))
		for _, u := range results {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			urls = append(urls, u)
			fresh = append(fresh, u)
		}
		if err := r.cache.AppendURLs(ctx, query, fresh); err != nil {
			slog.Warn("Failed to persist URL list to cache", "query", query, "error", err)
		}

		if len(results) < searchPageSize {
			// End of available results, do not retry.
			break
		}
	}

	if len(urls) > want {
		urls = urls[:want]
	}
	return urls, nil
}
