package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/scrapeflow/internal/entity"
	"github.com/user/scrapeflow/internal/repository"
	"github.com/user/scrapeflow/pkg/metrics"
)

// Pipeline defines the interface the delivery layer calls to run the
// scraping pipeline and inspect its shared state.
type Pipeline interface {
	// Run executes the full pipeline for one user request: planning,
	// URL resolution, scraping, chunking, and extraction. It returns a
	// typed error (ErrQuotaExceeded, ErrPlanningFailed, ErrNoURLsFound,
	// ErrConfiguration) on total failure, and otherwise a result whose
	// per-URL and per-chunk failures are embedded inline.
	Run(ctx context.Context, userPrompt string) (*entity.PipelineResult, error)
	// QuotaStatus reports today's search budget usage.
	QuotaStatus(ctx context.Context) (entity.QuotaStatus, error)
	// RecentRuns lists recently completed runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*entity.PipelineRun, error)
}

type pipeline struct {
	planner   *Planner
	resolver  *URLResolver
	scraper   *PageScraper
	extractor *Extractor
	limiter   *RateLimiter
	runs      repository.RunRepository

	resultCount    int
	maxChunkTokens int
}

// NewPipeline wires the pipeline stages together. Each inbound request gets
// an independent run; the rate limiter and result cache are the only state
// shared across concurrent runs.
func NewPipeline(
	planner *Planner,
	resolver *URLResolver,
	scraper *PageScraper,
	extractor *Extractor,
	limiter *RateLimiter,
	runs repository.RunRepository,
	resultCount int,
	maxChunkTokens int,
) Pipeline {
	return &pipeline{
		planner:        planner,
		resolver:       resolver,
		scraper:        scraper,
		extractor:      extractor,
		limiter:        limiter,
		runs:           runs,
		resultCount:    resultCount,
		maxChunkTokens: maxChunkTokens,
	}
}

func (p *pipeline) Run(ctx context.Context, userPrompt string) (*entity.PipelineResult, error) {
	plan, err := p.runPlanning(ctx, userPrompt)
	if err != nil {
		return nil, p.fail(err)
	}

	urls, err := p.runResolving(ctx, plan.SearchQuery)
	if err != nil {
		return nil, p.fail(err)
	}

	pages := p.runScraping(ctx, urls)

	chunks := SplitIntoChunks(pages, p.maxChunkTokens)
	slog.Info("Pages chunked for extraction", "pages", len(pages), "chunks", len(chunks))

	results, err := p.runExtracting(ctx, plan.ExtractionPrompt, chunks)
	if err != nil {
		return nil, p.fail(err)
	}

	metrics.PipelineRunsTotal.WithLabelValues("done").Inc()
	result := &entity.PipelineResult{Plan: *plan, Results: results}
	p.saveRun(ctx, userPrompt, result, len(urls), len(chunks))
	return result, nil
}

func (p *pipeline) runPlanning(ctx context.Context, userPrompt string) (*entity.Plan, error) {
	defer observeStage("planning", time.Now())
	return p.planner.Plan(ctx, userPrompt)
}

func (p *pipeline) runResolving(ctx context.Context, query string) ([]string, error) {
	defer observeStage("resolving", time.Now())
	urls, err := p.resolver.Resolve(ctx, query, p.resultCount)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, ErrNoURLsFound
	}
	slog.Info("Candidate URLs resolved", "query", query, "count", len(urls))
	return urls, nil
}

// runScraping never fails: each URL's outcome, success or inline error, is
// retained. Pages are scraped one at a time to respect the browser
// collaborator's own resource limits.
func (p *pipeline) runScraping(ctx context.Context, urls []string) []*entity.ScrapedPage {
	defer observeStage("scraping", time.Now())
	pages := make([]*entity.ScrapedPage, 0, len(urls))
	for _, url := range urls {
		pages = append(pages, p.scraper.Scrape(ctx, url))
	}
	return pages
}

func (p *pipeline) runExtracting(ctx context.Context, extractionPrompt string, chunks [][]*entity.ScrapedPage) ([]entity.ChunkResult, error) {
	defer observeStage("extracting", time.Now())
	return p.extractor.ExtractAll(ctx, extractionPrompt, chunks)
}

// saveRun persists the completed run for later inspection. Best effort: the
// caller already has the result, so a storage failure is only logged.
func (p *pipeline) saveRun(ctx context.Context, prompt string, result *entity.PipelineResult, urlCount, chunkCount int) {
	run := &entity.PipelineRun{
		Prompt:           prompt,
		SearchQuery:      result.Plan.SearchQuery,
		ExtractionPrompt: result.Plan.ExtractionPrompt,
		URLCount:         urlCount,
		ChunkCount:       chunkCount,
		Results:          result.Results,
		CreatedAt:        time.Now(),
	}
	if err := p.runs.Save(ctx, run); err != nil {
		slog.Warn("Failed to persist pipeline run", "error", err)
	}
}

func (p *pipeline) fail(err error) error {
	metrics.PipelineRunsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	return err
}

func (p *pipeline) QuotaStatus(ctx context.Context) (entity.QuotaStatus, error) {
	return p.limiter.Status(ctx)
}

func (p *pipeline) RecentRuns(ctx context.Context, limit int) ([]*entity.PipelineRun, error) {
	runs, err := p.runs.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent runs: %w", err)
	}
	return runs, nil
}

func observeStage(stage string, start time.Time) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrPlanningFailed):
		return "planning_failed"
	case errors.Is(err, ErrNoURLsFound):
		return "no_urls"
	case errors.Is(err, ErrConfiguration):
		return "config_error"
	default:
		return "error"
	}
}
