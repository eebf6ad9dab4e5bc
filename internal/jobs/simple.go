package jobs

import (
	"context"
	"fmt"

	"dndtools/internal/domain"
	"dndtools/internal/render"
)

// RunMap executes a single-stage standalone map job.
func (r *Runner) RunMap(ctx context.Context, jobID, campaignID string, width, height int) {
	d := r.deps
	log := d.Logger.With().Str("job_id", jobID).Str("campaign_id", campaignID).Logger()
	jobsStarted.WithLabelValues(string(domain.JobKindMap)).Inc()

	r.setRunning(ctx, jobID, "Generating map")

	if width <= 0 {
		width = render.DefaultMapSize
	}
	if height <= 0 {
		height = render.DefaultMapSize
	}

	mapPNG, err := d.Maps.Map(width, height)
	if err != nil {
		log.Error().Err(err).Msg("jobs: map generation failed")
		r.finish(ctx, jobID, domain.JobKindMap, domain.JobStatusError, err.Error(), "")
		return
	}

	artifact, err := r.saveFile(ctx, campaignID,
		domain.ArtifactKindMapPNG,
		fmt.Sprintf("Map %dx%d", width, height),
		fmt.Sprintf("map_%dx%d_%s.png", width, height, jobID),
		mapPNG,
		map[string]any{"width": width, "height": height},
	)
	if err != nil {
		log.Error().Err(err).Msg("jobs: persist map failed")
		r.finish(ctx, jobID, domain.JobKindMap, domain.JobStatusError, err.Error(), "")
		return
	}

	r.finish(ctx, jobID, domain.JobKindMap, domain.JobStatusDone, "Done", artifact.ID)
}

// RunPortraitsPDF executes a single-stage portraits-sheet job from the
// campaign's uploads directory.
func (r *Runner) RunPortraitsPDF(ctx context.Context, jobID, campaignID string, columns, rows int) {
	d := r.deps
	log := d.Logger.With().Str("job_id", jobID).Str("campaign_id", campaignID).Logger()
	jobsStarted.WithLabelValues(string(domain.JobKindPortraitsPDF)).Inc()

	r.setRunning(ctx, jobID, "Generating PDF")

	pdf, err := d.Portraits.PortraitsPDF(d.Store.UploadsDir(campaignID), columns, rows)
	if err != nil {
		log.Error().Err(err).Msg("jobs: portraits pdf failed")
		r.finish(ctx, jobID, domain.JobKindPortraitsPDF, domain.JobStatusError, err.Error(), "")
		return
	}

	artifact, err := r.saveFile(ctx, campaignID,
		domain.ArtifactKindPortraitsPDF,
		fmt.Sprintf("Portraits PDF (%dx%d)", columns, rows),
		fmt.Sprintf("portraits_%dx%d_%s.pdf", columns, rows, jobID),
		pdf,
		map[string]any{"columns": columns, "rows": rows},
	)
	if err != nil {
		log.Error().Err(err).Msg("jobs: persist portraits pdf failed")
		r.finish(ctx, jobID, domain.JobKindPortraitsPDF, domain.JobStatusError, err.Error(), "")
		return
	}

	r.finish(ctx, jobID, domain.JobKindPortraitsPDF, domain.JobStatusDone, "Done", artifact.ID)
}
