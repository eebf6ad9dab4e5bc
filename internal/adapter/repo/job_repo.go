package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dndtools/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	query := `
INSERT INTO jobs (id, campaign_id, kind, status, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at;
`
	return r.pool.QueryRow(ctx, query,
		job.ID,
		job.CampaignID,
		job.Kind,
		job.Status,
		job.Message,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
}

// Update overwrites status and message and refreshes updated_at. An empty
// resultArtifactID leaves the column NULL.
func (r *JobRepositoryPG) Update(ctx context.Context, jobID string, status domain.JobStatus, message string, resultArtifactID string) error {
	query := `
UPDATE jobs
SET status = $2,
    message = $3,
    result_artifact_id = $4,
    updated_at = now()
WHERE id = $1;
`
	_, err := r.pool.Exec(ctx, query, jobID, status, message, nullableString(resultArtifactID))
	return err
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
SELECT id, campaign_id, kind, status, message, COALESCE(result_artifact_id, ''), created_at, updated_at
FROM jobs
WHERE id = $1;
`
	var job domain.Job
	if err := r.pool.QueryRow(ctx, query, jobID).Scan(
		&job.ID,
		&job.CampaignID,
		&job.Kind,
		&job.Status,
		&job.Message,
		&job.ResultArtifactID,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// ListByCampaign returns the campaign's jobs ordered by most recent activity.
func (r *JobRepositoryPG) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
SELECT id, campaign_id, kind, status, message, COALESCE(result_artifact_id, ''), created_at, updated_at
FROM jobs
WHERE campaign_id = $1
ORDER BY updated_at DESC
LIMIT $2;
`
	rows, err := r.pool.Query(ctx, query, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.CampaignID,
			&job.Kind,
			&job.Status,
			&job.Message,
			&job.ResultArtifactID,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
