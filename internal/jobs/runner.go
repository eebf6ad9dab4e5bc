// Package jobs runs generation jobs as background units of work, persisting
// incremental status and artifacts so callers can poll for progress. Stages
// inside a job are strictly sequential; jobs themselves run concurrently
// with no coordination. Artifacts created before a failing stage are kept:
// partial progress stays visible, there is no rollback.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dndtools/internal/domain"
	"dndtools/internal/flowchart"
	"dndtools/internal/render"
	"dndtools/internal/storage"
)

// PackBuilder produces the structured campaign pack for a story prompt.
type PackBuilder interface {
	Build(ctx context.Context, storyPrompt, modelOverride string) (*domain.CampaignPack, error)
}

// GraphRenderer converts a DOT file into PNG and PDF renderings. It returns
// domain.ErrRenderUnavailable when the external tool is not installed.
type GraphRenderer interface {
	Render(ctx context.Context, dotPath, pngPath, pdfPath string) error
}

// DocumentRenderer writes the printable campaign document.
type DocumentRenderer interface {
	Document(pack *domain.CampaignPack, generatedAt time.Time) ([]byte, error)
}

// MapRenderer draws one location map as PNG bytes.
type MapRenderer interface {
	Map(width, height int) ([]byte, error)
}

// PortraitsRenderer lays uploaded portraits out on printable pages.
type PortraitsRenderer interface {
	PortraitsPDF(inputDir string, columns, rows int) ([]byte, error)
}

// PortraitsFunc adapts a plain function to PortraitsRenderer.
type PortraitsFunc func(inputDir string, columns, rows int) ([]byte, error)

func (f PortraitsFunc) PortraitsPDF(inputDir string, columns, rows int) ([]byte, error) {
	return f(inputDir, columns, rows)
}

// Deps wires the runner to its collaborators.
type Deps struct {
	Jobs      domain.JobRepository
	Artifacts domain.ArtifactRepository
	Store     *storage.FileStore
	Builder   PackBuilder
	Graph     GraphRenderer
	Documents DocumentRenderer
	Maps      MapRenderer
	Portraits PortraitsRenderer
	Logger    zerolog.Logger

	// MaxMapLocations caps how many location maps one campaign-pack job
	// renders. Zero means the default of 6.
	MaxMapLocations int
}

// Runner executes generation jobs. One call handles one job; callers are
// expected to invoke it on its own goroutine. There is no cancellation once
// a job has started other than process termination.
type Runner struct {
	deps Deps
}

// NewRunner validates nothing beyond defaults; collaborators are assumed
// wired by main.
func NewRunner(deps Deps) *Runner {
	if deps.MaxMapLocations <= 0 {
		deps.MaxMapLocations = 6
	}
	return &Runner{deps: deps}
}

// RunCampaignPack executes the multi-stage campaign-pack pipeline for an
// already-created queued job.
func (r *Runner) RunCampaignPack(ctx context.Context, jobID, campaignID, storyPrompt, modelOverride string) {
	d := r.deps
	log := d.Logger.With().Str("job_id", jobID).Str("campaign_id", campaignID).Logger()
	jobsStarted.WithLabelValues(string(domain.JobKindCampaignPack)).Inc()

	fail := func(err error) {
		log.Error().Err(err).Msg("jobs: campaign pack failed")
		r.finish(ctx, jobID, domain.JobKindCampaignPack, domain.JobStatusError, err.Error(), "")
	}

	// Stage 1: design. A failure here leaves no artifacts behind.
	r.setRunning(ctx, jobID, "Designing campaign")
	pack, err := d.Builder.Build(ctx, storyPrompt, modelOverride)
	if err != nil {
		fail(err)
		return
	}

	packJSON, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		fail(&domain.StageError{Stage: "save campaign pack json", Err: err})
		return
	}
	jsonArtifact, err := r.saveFile(ctx, campaignID,
		domain.ArtifactKindCampaignPackJSON,
		"Campaign pack JSON: "+pack.Title,
		fmt.Sprintf("campaign_pack_%s.json", jobID),
		packJSON,
		map[string]any{"title": pack.Title},
	)
	if err != nil {
		fail(&domain.StageError{Stage: "save campaign pack json", Err: err})
		return
	}

	// Stage 2: flowchart sources, persisted unconditionally.
	r.setRunning(ctx, jobID, "Writing flowchart")
	nodes := pack.DecisionFlow.Nodes

	mmdArtifact, err := r.saveFile(ctx, campaignID,
		domain.ArtifactKindFlowchartMermaid,
		"Decision flow (Mermaid)",
		fmt.Sprintf("decision_flow_%s.mmd", jobID),
		[]byte(flowchart.Mermaid(nodes)),
		nil,
	)
	if err != nil {
		fail(&domain.StageError{Stage: "write flowchart", Err: err})
		return
	}

	dotArtifact, err := r.saveFile(ctx, campaignID,
		domain.ArtifactKindFlowchartDot,
		"Decision flow (Graphviz DOT)",
		fmt.Sprintf("decision_flow_%s.dot", jobID),
		[]byte(flowchart.Dot(nodes)),
		nil,
	)
	if err != nil {
		fail(&domain.StageError{Stage: "write flowchart", Err: err})
		return
	}

	// Stage 3: optional raster rendering. Unavailability and execution
	// failures are recorded as a warning artifact and never abort the job.
	rendered := r.renderFlowchartRaster(ctx, log, jobID, campaignID, dotArtifact.FilePath)

	// Stage 4: per-location maps.
	r.setRunning(ctx, jobID, "Generating maps")
	locations := pack.Locations
	if len(locations) > d.MaxMapLocations {
		locations = locations[:d.MaxMapLocations]
	}
	for _, loc := range locations {
		name := strings.TrimSpace(loc.Name)
		if name == "" {
			name = "location"
		}
		width, height := loc.Map.Width, loc.Map.Height
		if width <= 0 {
			width = render.DefaultMapSize
		}
		if height <= 0 {
			height = render.DefaultMapSize
		}

		mapPNG, err := d.Maps.Map(width, height)
		if err != nil {
			fail(&domain.StageError{Stage: "generate maps", Err: err})
			return
		}
		if _, err := r.saveFile(ctx, campaignID,
			domain.ArtifactKindMapPNG,
			"Map: "+name,
			render.MapFileName(jobID, name, width, height),
			mapPNG,
			map[string]any{"location": name, "width": width, "height": height},
		); err != nil {
			fail(&domain.StageError{Stage: "generate maps", Err: err})
			return
		}
	}

	// Stage 5: printable document.
	r.setRunning(ctx, jobID, "Writing printable PDF")
	docPDF, err := d.Documents.Document(pack, time.Now())
	if err != nil {
		fail(&domain.StageError{Stage: "write printable pdf", Err: err})
		return
	}
	pdfArtifact, err := r.saveFile(ctx, campaignID,
		domain.ArtifactKindCampaignPackPDF,
		"Campaign pack (Printable PDF)",
		fmt.Sprintf("campaign_pack_%s.pdf", jobID),
		docPDF,
		map[string]any{"title": pack.Title},
	)
	if err != nil {
		fail(&domain.StageError{Stage: "write printable pdf", Err: err})
		return
	}

	// Stage 6: convenience premise artifact cross-referencing the rest.
	title := pack.Title
	if title == "" {
		title = "Campaign pack"
	}
	premise := pack.Premise
	if premise == "" {
		premise = "(no premise)"
	}
	if _, err := r.saveText(ctx, campaignID,
		domain.ArtifactKindPackPremise,
		"Premise: "+title,
		premise,
		map[string]any{
			"starting_location":        pack.StartingLocation,
			"json_artifact_id":         jsonArtifact.ID,
			"flow_mermaid_artifact_id": mmdArtifact.ID,
			"flow_dot_artifact_id":     dotArtifact.ID,
			"flow_rendered":            rendered,
			"pdf_artifact_id":          pdfArtifact.ID,
		},
	); err != nil {
		fail(&domain.StageError{Stage: "save premise", Err: err})
		return
	}

	r.finish(ctx, jobID, domain.JobKindCampaignPack, domain.JobStatusDone, "Done", pdfArtifact.ID)
	log.Info().Str("result_artifact_id", pdfArtifact.ID).Msg("jobs: campaign pack done")
}

// renderFlowchartRaster attempts the optional Graphviz rendering and reports
// whether PNG/PDF artifacts were produced.
func (r *Runner) renderFlowchartRaster(ctx context.Context, log zerolog.Logger, jobID, campaignID, dotPath string) bool {
	d := r.deps
	pngPath := d.Store.Abs(storage.ArtifactKey(campaignID, fmt.Sprintf("decision_flow_%s.png", jobID)))
	pdfPath := d.Store.Abs(storage.ArtifactKey(campaignID, fmt.Sprintf("decision_flow_%s.pdf", jobID)))

	err := d.Graph.Render(ctx, dotPath, pngPath, pdfPath)
	if err == nil {
		if _, err := r.saveExistingFile(ctx, campaignID, domain.ArtifactKindFlowchartPNG, "Decision flow (PNG)", pngPath, nil); err != nil {
			log.Warn().Err(err).Msg("jobs: persist flowchart png failed")
			return false
		}
		if _, err := r.saveExistingFile(ctx, campaignID, domain.ArtifactKindFlowchartPDF, "Decision flow (PDF)", pdfPath, nil); err != nil {
			log.Warn().Err(err).Msg("jobs: persist flowchart pdf failed")
			return false
		}
		return true
	}

	if errors.Is(err, domain.ErrRenderUnavailable) {
		log.Info().Msg("jobs: graph renderer unavailable, skipping raster flowchart")
	} else {
		log.Warn().Err(err).Msg("jobs: flowchart raster rendering failed")
	}
	if _, warnErr := r.saveText(ctx, campaignID,
		domain.ArtifactKindFlowchartWarning,
		"Flowchart render warning",
		err.Error(),
		nil,
	); warnErr != nil {
		log.Warn().Err(warnErr).Msg("jobs: persist flowchart warning failed")
	}
	return false
}

func (r *Runner) setRunning(ctx context.Context, jobID, message string) {
	if err := r.deps.Jobs.Update(ctx, jobID, domain.JobStatusRunning, message, ""); err != nil {
		r.deps.Logger.Error().Err(err).Str("job_id", jobID).Msg("jobs: update status failed")
	}
}

func (r *Runner) finish(ctx context.Context, jobID string, kind domain.JobKind, status domain.JobStatus, message, resultArtifactID string) {
	jobsFinished.WithLabelValues(string(kind), string(status)).Inc()
	if err := r.deps.Jobs.Update(ctx, jobID, status, message, resultArtifactID); err != nil {
		r.deps.Logger.Error().Err(err).Str("job_id", jobID).Msg("jobs: final status update failed")
	}
}

// saveFile writes data into the campaign's artifact directory and records
// the artifact row pointing at it.
func (r *Runner) saveFile(ctx context.Context, campaignID string, kind domain.ArtifactKind, title, filename string, data []byte, meta map[string]any) (*domain.Artifact, error) {
	path, err := r.deps.Store.Write(ctx, storage.ArtifactKey(campaignID, filename), data)
	if err != nil {
		return nil, err
	}
	return r.saveExistingFile(ctx, campaignID, kind, title, path, meta)
}

func (r *Runner) saveExistingFile(ctx context.Context, campaignID string, kind domain.ArtifactKind, title, path string, meta map[string]any) (*domain.Artifact, error) {
	artifact, err := r.deps.Artifacts.Create(ctx, domain.NewArtifact{
		CampaignID: campaignID,
		Kind:       kind,
		Title:      title,
		FilePath:   path,
		Meta:       meta,
	})
	if err != nil {
		return nil, err
	}
	artifactsCreated.WithLabelValues(string(kind)).Inc()
	return artifact, nil
}

func (r *Runner) saveText(ctx context.Context, campaignID string, kind domain.ArtifactKind, title, content string, meta map[string]any) (*domain.Artifact, error) {
	artifact, err := r.deps.Artifacts.Create(ctx, domain.NewArtifact{
		CampaignID:  campaignID,
		Kind:        kind,
		Title:       title,
		TextContent: content,
		Meta:        meta,
	})
	if err != nil {
		return nil, err
	}
	artifactsCreated.WithLabelValues(string(kind)).Inc()
	return artifact, nil
}
