package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"dndtools/internal/domain"
	"dndtools/pkg/zip"
)

func (a *App) GetArtifact(w http.ResponseWriter, r *http.Request) {
	artifact, ok := a.loadArtifact(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, artifactJSON(artifact))
}

// DownloadArtifact streams the artifact's content: file-backed artifacts are
// served from disk, text artifacts as plain text.
func (a *App) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	artifact, ok := a.loadArtifact(w, r)
	if !ok {
		return
	}

	if !artifact.IsFile() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(artifact.TextContent))
		return
	}

	filename := filepath.Base(artifact.FilePath)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	http.ServeFile(w, r, artifact.FilePath)
}

func (a *App) ListCampaignArtifacts(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	list, err := a.Artifacts.ListByCampaign(r.Context(), campaign.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list artifacts failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load artifacts")
		return
	}
	items := make([]map[string]any, 0, len(list))
	for i := range list {
		items = append(items, artifactJSON(&list[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CampaignZip bundles every artifact of the campaign into one archive. Text
// artifacts become .txt entries; unreadable files are skipped.
func (a *App) CampaignZip(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	list, err := a.Artifacts.ListByCampaign(r.Context(), campaign.ID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list artifacts failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load artifacts")
		return
	}
	if len(list) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "campaign has no artifacts")
		return
	}

	var entries []zip.Entry
	for i := range list {
		artifact := &list[i]
		if artifact.IsFile() {
			data, err := os.ReadFile(artifact.FilePath)
			if err != nil {
				a.Logger.Warn().Err(err).Str("artifact_id", artifact.ID).Msg("handlers: artifact file unreadable, skipping")
				continue
			}
			entries = append(entries, zip.Entry{Name: filepath.Base(artifact.FilePath), Data: data})
			continue
		}
		entries = append(entries, zip.Entry{
			Name: fmt.Sprintf("%s_%s.txt", artifact.Kind, artifact.ID),
			Data: []byte(artifact.TextContent),
		})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=campaign-%s.zip", campaign.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(zip.Archive(entries))
}

func (a *App) loadArtifact(w http.ResponseWriter, r *http.Request) (*domain.Artifact, bool) {
	id := chi.URLParam(r, "artifact_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "artifact_id required")
		return nil, false
	}
	artifact, err := a.Artifacts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "artifact not found")
		} else {
			a.Logger.Error().Err(err).Str("artifact_id", id).Msg("handlers: load artifact failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load artifact")
		}
		return nil, false
	}
	return artifact, true
}
