package usecase

import "errors"

var (
	// ErrQuotaExceeded is returned when the daily search budget is exhausted
	// before any candidate URL could be obtained. Retryable tomorrow.
	ErrQuotaExceeded = errors.New("daily search API quota exceeded")

	// ErrPlanningFailed is returned when the language model did not produce
	// a usable plan. Fatal for the run.
	ErrPlanningFailed = errors.New("language model did not produce a usable plan")

	// ErrNoURLsFound is returned when resolution produced zero candidate
	// URLs. Fatal for the run, there is nothing to scrape.
	ErrNoURLsFound = errors.New("no candidate URLs found for the search query")

	// ErrConfiguration is returned when a required collaborator credential
	// is missing. Fatal, not retried.
	ErrConfiguration = errors.New("pipeline configuration error")
)
