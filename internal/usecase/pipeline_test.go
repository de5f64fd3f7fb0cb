package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/scrapeflow/internal/repository"
)

type pipelineFixture struct {
	plannerLLM   *fakeLanguageModel
	extractorLLM *fakeLanguageModel
	search       *fakeSearchBackend
	browser      *fakeBrowserFetcher
	quota        *fakeQuotaRepo
	runs         *fakeRunRepo
	pipeline     Pipeline
}

func newPipelineFixture(plannerLLM, extractorLLM *fakeLanguageModel, search *fakeSearchBackend, browser *fakeBrowserFetcher) *pipelineFixture {
	quota := newFakeQuotaRepo()
	runs := &fakeRunRepo{}
	limiter := NewRateLimiter(quota, 90)
	cache := NewResultCache(newFakeCacheRepo())

	p := NewPipeline(
		NewPlanner(plannerLLM),
		NewURLResolver(search, limiter, cache),
		NewPageScraper(browser, cache, time.Second),
		NewExtractor(extractorLLM),
		limiter,
		runs,
		10,
		6000,
	)
	return &pipelineFixture{
		plannerLLM:   plannerLLM,
		extractorLLM: extractorLLM,
		search:       search,
		browser:      browser,
		quota:        quota,
		runs:         runs,
		pipeline:     p,
	}
}

func coffeePlanLLM() *fakeLanguageModel {
	return &fakeLanguageModel{responses: []string{
		`{"searchQuery": "coffee shops Austin", "extractionPrompt": "extract name, address"}`,
	}}
}

// Scenario A: three URLs, all scrapes succeed, one record per chunk.
func TestPipeline_HappyPath(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1: {"https://a", "https://b", "https://c"},
	}}
	extractorLLM := &fakeLanguageModel{responses: []string{
		`[{"name": "Shop", "address": "123 Main St"}]`,
	}}
	fx := newPipelineFixture(coffeePlanLLM(), extractorLLM, search, &fakeBrowserFetcher{})

	result, err := fx.pipeline.Run(context.Background(), "list coffee shops in Austin")
	require.NoError(t, err)
	assert.Equal(t, "coffee shops Austin", result.Plan.SearchQuery)
	require.NotEmpty(t, result.Results)
	for _, chunk := range result.Results {
		assert.Empty(t, chunk.Error, "chunk %d must not carry an error", chunk.Index)
		assert.NotEmpty(t, chunk.Data)
	}

	// The completed run was persisted.
	require.Len(t, fx.runs.saved, 1)
	assert.Equal(t, "list coffee shops in Austin", fx.runs.saved[0].Prompt)
	assert.Equal(t, 3, fx.runs.saved[0].URLCount)
}

// Scenario B: the search backend errors on the first page request.
func TestPipeline_SearchFailureYieldsNoURLsFound(t *testing.T) {
	search := &fakeSearchBackend{err: errors.New("backend down")}
	fx := newPipelineFixture(coffeePlanLLM(), &fakeLanguageModel{}, search, &fakeBrowserFetcher{})

	_, err := fx.pipeline.Run(context.Background(), "list coffee shops in Austin")
	assert.ErrorIs(t, err, ErrNoURLsFound)
	assert.Equal(t, 0, fx.browser.calls, "nothing to scrape")
	assert.Empty(t, fx.runs.saved)
}

// Scenario C: quota already at the limit, no search call is attempted.
func TestPipeline_QuotaExhaustedBeforeAnySearch(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{1: {"https://a"}}}
	fx := newPipelineFixture(coffeePlanLLM(), &fakeLanguageModel{}, search, &fakeBrowserFetcher{})

	ctx := context.Background()
	for i := 0; i < 90; i++ {
		_, err := fx.quota.Increment(ctx, quotaKeyForToday())
		require.NoError(t, err)
	}

	_, err := fx.pipeline.Run(ctx, "list coffee shops in Austin")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 0, fx.search.calls)
}

// Scenario D: one of three URLs fails to render; the run still completes.
func TestPipeline_PartialScrapeFailureStillCompletes(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{
		1: {"https://a", "https://broken", "https://c"},
	}}
	browser := &fakeBrowserFetcher{errs: map[string]error{
		"https://broken": errors.New("render error"),
	}}
	extractorLLM := &fakeLanguageModel{responses: []string{`[{"name": "Shop"}]`}}
	fx := newPipelineFixture(coffeePlanLLM(), extractorLLM, search, browser)

	result, err := fx.pipeline.Run(context.Background(), "list coffee shops in Austin")
	require.NoError(t, err, "a single broken URL must not fail the run")
	require.NotEmpty(t, result.Results)
	assert.Equal(t, 3, fx.browser.calls)
}

func TestPipeline_PlanningFailureIsFatal(t *testing.T) {
	plannerLLM := &fakeLanguageModel{responses: []string{"not a plan"}}
	fx := newPipelineFixture(plannerLLM, &fakeLanguageModel{}, &fakeSearchBackend{}, &fakeBrowserFetcher{})

	_, err := fx.pipeline.Run(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrPlanningFailed)
	assert.Equal(t, 0, fx.search.calls, "no search may happen without a plan")
}

func TestPipeline_MissingExtractionCredentialIsFatal(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{1: {"https://a"}}}
	extractorLLM := &fakeLanguageModel{errs: []error{repository.ErrMissingCredential}}
	fx := newPipelineFixture(coffeePlanLLM(), extractorLLM, search, &fakeBrowserFetcher{})

	_, err := fx.pipeline.Run(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestPipeline_QuotaStatusPassthrough(t *testing.T) {
	fx := newPipelineFixture(coffeePlanLLM(), &fakeLanguageModel{}, &fakeSearchBackend{}, &fakeBrowserFetcher{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := fx.quota.Increment(ctx, quotaKeyForToday())
		require.NoError(t, err)
	}

	status, err := fx.pipeline.QuotaStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.Used)
	assert.Equal(t, int64(88), status.Remaining)
	assert.Equal(t, int64(90), status.Limit)
}

func TestPipeline_RecentRuns(t *testing.T) {
	search := &fakeSearchBackend{pages: map[int][]string{1: {"https://a"}}}
	extractorLLM := &fakeLanguageModel{responses: []string{`{"ok": 1}`, `{"ok": 2}`}}
	plannerLLM := &fakeLanguageModel{responses: []string{
		`{"searchQuery": "q1", "extractionPrompt": "p1"}`,
		`{"searchQuery": "q2", "extractionPrompt": "p2"}`,
	}}
	fx := newPipelineFixture(plannerLLM, extractorLLM, search, &fakeBrowserFetcher{})
	ctx := context.Background()

	_, err := fx.pipeline.Run(ctx, "first")
	require.NoError(t, err)
	_, err = fx.pipeline.Run(ctx, "second")
	require.NoError(t, err)

	runs, err := fx.pipeline.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].Prompt, "newest first")
}
