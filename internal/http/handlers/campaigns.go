package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dndtools/internal/domain"
)

type createCampaignRequest struct {
	Name string `json:"name"`
}

func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}

	campaign := &domain.Campaign{ID: uuid.NewString(), Name: req.Name}
	if err := a.Campaigns.Create(r.Context(), campaign); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: create campaign failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create campaign")
		return
	}
	a.json(w, http.StatusCreated, campaignJSON(campaign))
}

func (a *App) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Campaigns.List(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list campaigns failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load campaigns")
		return
	}
	items := make([]map[string]any, 0, len(campaigns))
	for i := range campaigns {
		items = append(items, campaignJSON(&campaigns[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, campaignJSON(campaign))
}

// loadCampaign resolves the {campaign_id} URL parameter, writing the error
// response itself when the campaign cannot be served.
func (a *App) loadCampaign(w http.ResponseWriter, r *http.Request) (*domain.Campaign, bool) {
	id := chi.URLParam(r, "campaign_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "campaign_id required")
		return nil, false
	}
	campaign, err := a.Campaigns.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "campaign not found")
		} else {
			a.Logger.Error().Err(err).Str("campaign_id", id).Msg("handlers: load campaign failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load campaign")
		}
		return nil, false
	}
	return campaign, true
}
