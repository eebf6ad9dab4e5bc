package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"dndtools/internal/domain"
)

type campaignPackRequest struct {
	StoryPrompt string `json:"story_prompt"`
	Model       string `json:"model"`
}

// GenerateCampaignPack accepts a story prompt, records a queued job and runs
// the multi-stage pipeline on its own goroutine. The response carries the job
// for polling; the background work deliberately outlives the request context.
func (a *App) GenerateCampaignPack(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	var req campaignPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.StoryPrompt = strings.TrimSpace(req.StoryPrompt)
	if req.StoryPrompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "story_prompt required")
		return
	}

	job, ok := a.enqueue(w, r, campaign.ID, domain.JobKindCampaignPack)
	if !ok {
		return
	}
	go a.Runner.RunCampaignPack(context.Background(), job.ID, campaign.ID, req.StoryPrompt, req.Model)
	a.json(w, http.StatusAccepted, jobJSON(job))
}

type mapRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (a *App) GenerateMap(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	var req mapRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	job, ok := a.enqueue(w, r, campaign.ID, domain.JobKindMap)
	if !ok {
		return
	}
	go a.Runner.RunMap(context.Background(), job.ID, campaign.ID, req.Width, req.Height)
	a.json(w, http.StatusAccepted, jobJSON(job))
}

type portraitsRequest struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

func (a *App) GeneratePortraitsPDF(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	req := portraitsRequest{Columns: 3, Rows: 3}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Columns <= 0 {
		req.Columns = 3
	}
	if req.Rows <= 0 {
		req.Rows = 3
	}

	job, ok := a.enqueue(w, r, campaign.ID, domain.JobKindPortraitsPDF)
	if !ok {
		return
	}
	go a.Runner.RunPortraitsPDF(context.Background(), job.ID, campaign.ID, req.Columns, req.Rows)
	a.json(w, http.StatusAccepted, jobJSON(job))
}

// enqueue persists a queued job row before the handler hands it to the
// runner, so a poll immediately after the response already sees it.
func (a *App) enqueue(w http.ResponseWriter, r *http.Request, campaignID string, kind domain.JobKind) (*domain.Job, bool) {
	job := &domain.Job{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		Kind:       kind,
		Status:     domain.JobStatusQueued,
		Message:    "Queued",
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		a.Logger.Error().Err(err).Str("kind", string(kind)).Msg("handlers: queue job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue job")
		return nil, false
	}
	return job, true
}

const backstorySystemPrompt = "You are a creative D&D storyteller. " +
	"Write vivid but concise prose. No markdown headings."

type backstoryRequest struct {
	CharacterName string `json:"character_name"`
	Concept       string `json:"concept"`
	Model         string `json:"model"`
}

// GenerateBackstory is synchronous: the completion is short enough to hold
// the request open, so no job row is involved.
func (a *App) GenerateBackstory(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	var req backstoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.CharacterName = strings.TrimSpace(req.CharacterName)
	if req.CharacterName == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "character_name required")
		return
	}

	prompt := fmt.Sprintf("Write a backstory of 3-5 paragraphs for a D&D character named %q.", req.CharacterName)
	if concept := strings.TrimSpace(req.Concept); concept != "" {
		prompt += fmt.Sprintf(" Character concept: %s.", concept)
	}

	a.textArtifact(w, r, campaign.ID, req.Model,
		prompt,
		domain.ArtifactKindBackstory,
		"Backstory: "+req.CharacterName,
		map[string]any{"character_name": req.CharacterName},
	)
}

type plotHooksRequest struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
	Model string `json:"model"`
}

func (a *App) GeneratePlotHooks(w http.ResponseWriter, r *http.Request) {
	campaign, ok := a.loadCampaign(w, r)
	if !ok {
		return
	}
	req := plotHooksRequest{Count: 5}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Count <= 0 || req.Count > 20 {
		req.Count = 5
	}

	prompt := fmt.Sprintf("Write %d one-sentence D&D plot hooks, one per line.", req.Count)
	if theme := strings.TrimSpace(req.Theme); theme != "" {
		prompt += fmt.Sprintf(" Theme: %s.", theme)
	}

	a.textArtifact(w, r, campaign.ID, req.Model,
		prompt,
		domain.ArtifactKindPlotHooks,
		"Plot hooks",
		map[string]any{"count": req.Count},
	)
}

func (a *App) textArtifact(w http.ResponseWriter, r *http.Request, campaignID, model, prompt string, kind domain.ArtifactKind, title string, meta map[string]any) {
	content, err := a.Text.Complete(r.Context(), backstorySystemPrompt, prompt, model)
	if err != nil {
		a.Logger.Error().Err(err).Str("kind", string(kind)).Msg("handlers: text generation failed")
		a.error(w, http.StatusBadGateway, "generation_failed", "text generation failed")
		return
	}
	content = strings.TrimSpace(content)
	if content == "" {
		a.error(w, http.StatusBadGateway, "generation_failed", "empty completion")
		return
	}

	artifact, err := a.Artifacts.Create(r.Context(), domain.NewArtifact{
		CampaignID:  campaignID,
		Kind:        kind,
		Title:       title,
		TextContent: content,
		Meta:        meta,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: persist text artifact failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save artifact")
		return
	}
	a.json(w, http.StatusCreated, artifactJSON(artifact))
}
