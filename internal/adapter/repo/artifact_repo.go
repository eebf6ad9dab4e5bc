package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dndtools/internal/domain"
)

// ArtifactRepositoryPG implements domain.ArtifactRepository.
type ArtifactRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewArtifactRepository creates an artifact repository backed by PostgreSQL.
func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepositoryPG {
	return &ArtifactRepositoryPG{pool: pool}
}

// Create inserts a new immutable artifact and returns the stored row.
// Exactly one of TextContent or FilePath must be set.
func (r *ArtifactRepositoryPG) Create(ctx context.Context, in domain.NewArtifact) (*domain.Artifact, error) {
	if (in.TextContent == "") == (in.FilePath == "") {
		return nil, fmt.Errorf("artifact requires exactly one of text content or file path")
	}
	meta := in.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode artifact meta: %w", err)
	}

	artifact := &domain.Artifact{
		ID:          uuid.NewString(),
		CampaignID:  in.CampaignID,
		Kind:        in.Kind,
		Title:       in.Title,
		TextContent: in.TextContent,
		FilePath:    in.FilePath,
		Meta:        meta,
	}

	query := `
INSERT INTO artifacts (id, campaign_id, kind, title, text_content, file_path, meta_json)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at;
`
	if err := r.pool.QueryRow(ctx, query,
		artifact.ID,
		artifact.CampaignID,
		artifact.Kind,
		artifact.Title,
		nullableString(artifact.TextContent),
		nullableString(artifact.FilePath),
		metaJSON,
	).Scan(&artifact.CreatedAt); err != nil {
		return nil, err
	}
	return artifact, nil
}

// GetByID fetches an artifact by its identifier.
func (r *ArtifactRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Artifact, error) {
	query := `
SELECT id, campaign_id, kind, title, COALESCE(text_content, ''), COALESCE(file_path, ''), meta_json, created_at
FROM artifacts
WHERE id = $1;
`
	artifact, err := scanArtifact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return artifact, nil
}

// ListByCampaign returns the campaign's artifacts, newest first.
func (r *ArtifactRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Artifact, error) {
	query := `
SELECT id, campaign_id, kind, title, COALESCE(text_content, ''), COALESCE(file_path, ''), meta_json, created_at
FROM artifacts
WHERE campaign_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []domain.Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *artifact)
	}
	return artifacts, rows.Err()
}

func scanArtifact(row pgx.Row) (*domain.Artifact, error) {
	var a domain.Artifact
	var metaJSON []byte
	if err := row.Scan(
		&a.ID,
		&a.CampaignID,
		&a.Kind,
		&a.Title,
		&a.TextContent,
		&a.FilePath,
		&metaJSON,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &a.Meta); err != nil {
			return nil, fmt.Errorf("decode artifact meta: %w", err)
		}
	}
	return &a, nil
}

var _ domain.ArtifactRepository = (*ArtifactRepositoryPG)(nil)
