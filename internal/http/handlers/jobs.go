package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dndtools/internal/domain"
)

func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
		} else {
			a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: load job failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		}
		return
	}
	a.json(w, http.StatusOK, jobJSON(job))
}

func (a *App) ListCampaignJobs(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	list, err := a.Jobs.ListByCampaign(r.Context(), campaign.ID, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load jobs")
		return
	}
	items := make([]map[string]any, 0, len(list))
	for i := range list {
		items = append(items, jobJSON(&list[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
