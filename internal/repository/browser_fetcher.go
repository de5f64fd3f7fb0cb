package repository

import (
	"context"

	"github.com/user/scrapeflow/internal/entity"
)

// BrowserFetcher defines the contract for the headless-browser collaborator
// that renders a page and extracts its content.
type BrowserFetcher interface {
	// Fetch navigates to url, waits for the DOM, and returns the extracted
	// page content. It fails with a render or timeout error for unreachable
	// or slow pages.
	Fetch(ctx context.Context, url string) (*entity.ScrapedPage, error)
}
