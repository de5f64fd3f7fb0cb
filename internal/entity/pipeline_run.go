package entity

import "time"

// PipelineRun mirrors the `pipeline_runs` PostgreSQL table schema. One row is
// written per completed run for inspection and export after the fact.
type PipelineRun struct {
	ID               int64
	Prompt           string
	SearchQuery      string
	ExtractionPrompt string
	URLCount         int
	ChunkCount       int
	Results          []ChunkResult // Stored as JSONB in PostgreSQL
	CreatedAt        time.Time
}
