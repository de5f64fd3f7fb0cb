package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/scrapeflow/internal/entity"
)

// RunRepoImpl provides a concrete implementation for the RunRepository
// interface using PostgreSQL.
type RunRepoImpl struct {
	db *pgxpool.Pool
}

// NewRunRepo creates a new instance of RunRepoImpl.
func NewRunRepo(db *pgxpool.Pool) *RunRepoImpl {
	return &RunRepoImpl{db: db}
}

// Save stores one completed pipeline run and fills in its generated ID.
func (r *RunRepoImpl) Save(ctx context.Context, run *entity.PipelineRun) error {
	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pipeline_runs (prompt, search_query, extraction_prompt, url_count, chunk_count, results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`

	return r.db.QueryRow(ctx, query,
		run.Prompt,
		run.SearchQuery,
		run.ExtractionPrompt,
		run.URLCount,
		run.ChunkCount,
		resultsJSON,
		run.CreatedAt,
	).Scan(&run.ID)
}

// FindRecent retrieves the most recent runs, newest first.
func (r *RunRepoImpl) FindRecent(ctx context.Context, limit int) ([]*entity.PipelineRun, error) {
	query := `
		SELECT id, prompt, search_query, extraction_prompt, url_count, chunk_count, results, created_at
		FROM pipeline_runs
		ORDER BY created_at DESC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*entity.PipelineRun
	for rows.Next() {
		var run entity.PipelineRun
		var resultsJSON []byte

		if err := rows.Scan(
			&run.ID,
			&run.Prompt,
			&run.SearchQuery,
			&run.ExtractionPrompt,
			&run.URLCount,
			&run.ChunkCount,
			&resultsJSON,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
