package entity

import "encoding/json"

// ChunkResult is the outcome of one extraction call on one chunk: either the
// model's parsed JSON value, or an inline error marker. A failed chunk never
// aborts its siblings.
type ChunkResult struct {
	Index int             `json:"index"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// PipelineResult is what a completed run yields: the plan that drove it and
// the ordered per-chunk extraction outcomes.
type PipelineResult struct {
	Plan    Plan          `json:"plan"`
	Results []ChunkResult `json:"results"`
}
