package response

import (
	"encoding/json"
	"time"
)

// PlanResponse mirrors entity.Plan.
type PlanResponse struct {
	SearchQuery      string `json:"searchQuery"`
	ExtractionPrompt string `json:"extractionPrompt"`
}

// ChunkResultResponse is one chunk's extraction outcome: parsed JSON data,
// or an inline error marker.
type ChunkResultResponse struct {
	Index int             `json:"index"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// PipelineResponse is the body of a successful POST /api/pipeline.
type PipelineResponse struct {
	Plan    PlanResponse          `json:"plan"`
	Results []ChunkResultResponse `json:"results"`
}

// QuotaStatusResponse is the body of GET /api/quota.
type QuotaStatusResponse struct {
	Used      int64 `json:"used"`
	Remaining int64 `json:"remaining"`
	Limit     int64 `json:"limit"`
}

// RunSummaryResponse is one entry in GET /api/runs. Results are omitted to
// keep the listing small; the xlsx export carries the full data.
type RunSummaryResponse struct {
	ID          int64     `json:"id"`
	Prompt      string    `json:"prompt"`
	SearchQuery string    `json:"search_query"`
	URLCount    int       `json:"url_count"`
	ChunkCount  int       `json:"chunk_count"`
	CreatedAt   time.Time `json:"created_at"`
}
