package googlesearch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/user/scrapeflow/internal/repository"
)

const endpoint = "https://www.googleapis.com/customsearch/v1"

type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// SearchBackendImpl provides a concrete implementation for the SearchBackend
// interface using the Google Custom Search JSON API.
type SearchBackendImpl struct {
	client *resty.Client
	apiKey string
	cseID  string
}

// NewSearchBackend creates a new instance of SearchBackendImpl.
func NewSearchBackend(apiKey, cseID string) *SearchBackendImpl {
	return &SearchBackendImpl{
		client: resty.New(),
		apiKey: apiKey,
		cseID:  cseID,
	}
}

// Search returns up to 10 result URLs starting at the 1-indexed offset.
func (s *SearchBackendImpl) Search(ctx context.Context, query string, start int) ([]string, error) {
	if s.apiKey == "" || s.cseID == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY or GOOGLE_CSE_ID", repository.ErrMissingCredential)
	}

	var result searchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":   s.apiKey,
			"cx":    s.cseID,
			"q":     query,
			"start": strconv.Itoa(start),
		}).
		SetResult(&result).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search request returned status %d", resp.StatusCode())
	}

	urls := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		urls = append(urls, item.Link)
	}
	return urls, nil
}
