package domain

import "context"

// CampaignRepository defines persistence for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
}

// JobRepository defines persistence for job entities. Update refreshes the
// job's updated_at timestamp on every call.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, jobID string, status JobStatus, message string, resultArtifactID string) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
	ListByCampaign(ctx context.Context, campaignID string, limit int) ([]Job, error)
}

// ArtifactRepository handles persistence for generated artifacts. Create
// returns the stored artifact so callers can cross-reference its ID.
type ArtifactRepository interface {
	Create(ctx context.Context, in NewArtifact) (*Artifact, error)
	GetByID(ctx context.Context, id string) (*Artifact, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]Artifact, error)
}
