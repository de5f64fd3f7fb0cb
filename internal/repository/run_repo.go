package repository

import (
	"context"

	"github.com/user/scrapeflow/internal/entity"
)

// RunRepository defines the interface for persisting completed pipeline runs.
type RunRepository interface {
	// Save stores one completed run and fills in its generated ID.
	Save(ctx context.Context, run *entity.PipelineRun) error
	// FindRecent retrieves the most recent runs, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.PipelineRun, error)
}
