package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"dndtools/internal/domain"
	"dndtools/internal/jobs"
	"dndtools/internal/providers/text"
	"dndtools/internal/storage"
)

// App carries the handler dependencies. All handlers are methods on it.
type App struct {
	Campaigns domain.CampaignRepository
	Jobs      domain.JobRepository
	Artifacts domain.ArtifactRepository
	Runner    *jobs.Runner
	Text      text.Generator
	Store     *storage.FileStore
	Logger    zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func campaignJSON(c *domain.Campaign) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"created_at": c.CreatedAt,
	}
}

func jobJSON(j *domain.Job) map[string]any {
	return map[string]any{
		"id":                 j.ID,
		"campaign_id":        j.CampaignID,
		"kind":               j.Kind,
		"status":             j.Status,
		"message":            j.Message,
		"result_artifact_id": j.ResultArtifactID,
		"created_at":         j.CreatedAt,
		"updated_at":         j.UpdatedAt,
	}
}

func artifactJSON(art *domain.Artifact) map[string]any {
	out := map[string]any{
		"id":          art.ID,
		"campaign_id": art.CampaignID,
		"kind":        art.Kind,
		"title":       art.Title,
		"is_file":     art.IsFile(),
		"created_at":  art.CreatedAt,
	}
	if art.TextContent != "" {
		out["text_content"] = art.TextContent
	}
	if art.Meta != nil {
		out["meta"] = art.Meta
	}
	return out
}
