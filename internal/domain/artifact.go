package domain

import "time"

// ArtifactKind tags the content type of a persisted artifact. The string
// values are a stable contract with any viewer.
type ArtifactKind string

const (
	ArtifactKindCampaignPackJSON ArtifactKind = "file.campaign_pack_json"
	ArtifactKindFlowchartMermaid ArtifactKind = "file.flowchart_mermaid"
	ArtifactKindFlowchartDot     ArtifactKind = "file.flowchart_dot"
	ArtifactKindFlowchartPNG     ArtifactKind = "file.flowchart_png"
	ArtifactKindFlowchartPDF     ArtifactKind = "file.flowchart_pdf"
	ArtifactKindFlowchartWarning ArtifactKind = "text.flowchart_render_warning"
	ArtifactKindMapPNG           ArtifactKind = "file.map_png"
	ArtifactKindCampaignPackPDF  ArtifactKind = "file.campaign_pack_pdf"
	ArtifactKindPackPremise      ArtifactKind = "text.campaign_pack_premise"
	ArtifactKindPortraitsPDF     ArtifactKind = "file.portraits_pdf"
	ArtifactKindBackstory        ArtifactKind = "text.backstory"
	ArtifactKindPlotHooks        ArtifactKind = "text.plot_hooks"
)

// Artifact is any persisted generation output belonging to a campaign.
// Exactly one of TextContent or FilePath is populated. Artifacts are
// immutable once created; a corrected rendering is a new artifact.
type Artifact struct {
	ID          string
	CampaignID  string
	Kind        ArtifactKind
	Title       string
	TextContent string
	FilePath    string
	Meta        map[string]any
	CreatedAt   time.Time
}

// IsFile reports whether the artifact's content lives on disk.
func (a *Artifact) IsFile() bool {
	return a.FilePath != ""
}

// NewArtifact carries the fields for creating an artifact.
type NewArtifact struct {
	CampaignID  string
	Kind        ArtifactKind
	Title       string
	TextContent string
	FilePath    string
	Meta        map[string]any
}
