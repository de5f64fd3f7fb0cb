package repository

import "context"

// SearchBackend defines the contract for the web search collaborator.
type SearchBackend interface {
	// Search returns up to 10 ranked result URLs for the query. start is the
	// 1-indexed offset of the first result (1, 11, 21, ...).
	Search(ctx context.Context, query string, start int) ([]string, error)
}
