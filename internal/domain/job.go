package domain

import "time"

// JobKind enumerates supported generation job categories.
type JobKind string

const (
	JobKindCampaignPack JobKind = "campaign_pack"
	JobKindMap          JobKind = "map"
	JobKindPortraitsPDF JobKind = "portraits_pdf"
)

// JobStatus enumerates job lifecycle states. Done and Error are terminal.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// Job tracks one asynchronous unit of generation work for a campaign.
// Message holds the latest human-readable progress string and is overwritten
// on every transition; ResultArtifactID is set only when the job reaches done.
type Job struct {
	ID               string
	CampaignID       string
	Kind             JobKind
	Status           JobStatus
	Message          string
	ResultArtifactID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Terminal reports whether the job has reached an absorbing state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusDone || j.Status == JobStatusError
}
