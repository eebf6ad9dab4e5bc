package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"dndtools/internal/domain"
	"dndtools/internal/http/handlers"
	"dndtools/internal/http/httpapi"
	"dndtools/internal/jobs"
	"dndtools/internal/storage"
)

type memCampaigns struct {
	mu   sync.Mutex
	byID map[string]*domain.Campaign
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{byID: map[string]*domain.Campaign{}}
}

func (m *memCampaigns) Create(_ context.Context, c *domain.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt = time.Now()
	m.byID[c.ID] = c
	return nil
}

func (m *memCampaigns) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCampaigns) List(_ context.Context) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Campaign, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, *c)
	}
	return out, nil
}

type memJobs struct {
	mu   sync.Mutex
	byID map[string]*domain.Job
}

func newMemJobs() *memJobs { return &memJobs{byID: map[string]*domain.Job{}} }

func (m *memJobs) Create(_ context.Context, j *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	clone := *j
	m.byID[j.ID] = &clone
	return nil
}

func (m *memJobs) Update(_ context.Context, jobID string, status domain.JobStatus, message, resultArtifactID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.byID[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	j.Message = message
	j.ResultArtifactID = resultArtifactID
	j.UpdatedAt = time.Now()
	return nil
}

func (m *memJobs) GetByID(_ context.Context, jobID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.byID[jobID]; ok {
		clone := *j
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memJobs) ListByCampaign(_ context.Context, campaignID string, limit int) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Job
	for _, j := range m.byID {
		if j.CampaignID == campaignID && len(out) < limit {
			out = append(out, *j)
		}
	}
	return out, nil
}

type memArtifacts struct {
	mu   sync.Mutex
	list []*domain.Artifact
}

func (m *memArtifacts) Create(_ context.Context, in domain.NewArtifact) (*domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &domain.Artifact{
		ID:          fmt.Sprintf("artifact-%d", len(m.list)+1),
		CampaignID:  in.CampaignID,
		Kind:        in.Kind,
		Title:       in.Title,
		TextContent: in.TextContent,
		FilePath:    in.FilePath,
		Meta:        in.Meta,
		CreatedAt:   time.Now(),
	}
	m.list = append(m.list, a)
	return a, nil
}

func (m *memArtifacts) GetByID(_ context.Context, id string) (*domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.list {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memArtifacts) ListByCampaign(_ context.Context, campaignID string) ([]domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Artifact
	for _, a := range m.list {
		if a.CampaignID == campaignID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type stubText struct {
	response string
	err      error
}

func (s *stubText) Complete(_ context.Context, _, _, _ string) (string, error) {
	return s.response, s.err
}

type stubBuilder struct{}

func (stubBuilder) Build(_ context.Context, _, _ string) (*domain.CampaignPack, error) {
	return &domain.CampaignPack{
		Title:   "Test Pack",
		Premise: "A premise.",
		DecisionFlow: domain.DecisionFlow{Nodes: []domain.FlowNode{
			{ID: "N1", Text: "Start"},
		}},
	}, nil
}

type stubGraph struct{}

func (stubGraph) Render(context.Context, string, string, string) error {
	return domain.ErrRenderUnavailable
}

type stubDocuments struct{}

func (stubDocuments) Document(*domain.CampaignPack, time.Time) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type stubMaps struct{}

func (stubMaps) Map(int, int) ([]byte, error) { return []byte("\x89PNG-stub"), nil }

type env struct {
	handler   http.Handler
	campaigns *memCampaigns
	jobs      *memJobs
	artifacts *memArtifacts
	text      *stubText
}

func newEnv(t *testing.T) *env {
	t.Helper()
	campaigns := newMemCampaigns()
	jobsRepo := newMemJobs()
	artifacts := &memArtifacts{}
	text := &stubText{response: "Generated text."}
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	runner := jobs.NewRunner(jobs.Deps{
		Jobs:      jobsRepo,
		Artifacts: artifacts,
		Store:     store,
		Builder:   stubBuilder{},
		Graph:     stubGraph{},
		Documents: stubDocuments{},
		Maps:      stubMaps{},
		Portraits: jobs.PortraitsFunc(func(string, int, int) ([]byte, error) {
			return []byte("%PDF-stub"), nil
		}),
		Logger: zerolog.Nop(),
	})

	app := &handlers.App{
		Campaigns: campaigns,
		Jobs:      jobsRepo,
		Artifacts: artifacts,
		Runner:    runner,
		Text:      text,
		Store:     store,
		Logger:    zerolog.Nop(),
	}
	return &env{
		handler:   httpapi.NewRouter(app),
		campaigns: campaigns,
		jobs:      jobsRepo,
		artifacts: artifacts,
		text:      text,
	}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *env) createCampaign(t *testing.T, name string) string {
	t.Helper()
	rr := e.do(t, "POST", "/v1/campaigns", map[string]string{"name": name})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create campaign: status %d: %s", rr.Code, rr.Body)
	}
	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp["id"].(string)
}

func (e *env) waitTerminal(t *testing.T, jobID string) *domain.Job {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := e.jobs.GetByID(context.Background(), jobID)
		if err == nil && job.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", jobID)
	return nil
}

func TestCampaignLifecycle(t *testing.T) {
	e := newEnv(t)

	id := e.createCampaign(t, "Shadows over Graywharf")

	rr := e.do(t, "GET", "/v1/campaigns/"+id, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get campaign: status %d", rr.Code)
	}
	var got map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&got)
	if got["name"] != "Shadows over Graywharf" {
		t.Fatalf("name = %v", got["name"])
	}

	rr = e.do(t, "GET", "/v1/campaigns", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list campaigns: status %d", rr.Code)
	}
	var listResp struct {
		Items []map[string]any `json:"items"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&listResp)
	if len(listResp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(listResp.Items))
	}
}

func TestCreateCampaignRequiresName(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "POST", "/v1/campaigns", map[string]string{"name": "   "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestGenerateCampaignPack(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	rr := e.do(t, "POST", "/v1/campaigns/"+id+"/generate/campaign-pack",
		map[string]string{"story_prompt": "a cursed lighthouse"})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	var resp map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp["status"] != string(domain.JobStatusQueued) {
		t.Fatalf("initial status = %v", resp["status"])
	}

	job := e.waitTerminal(t, resp["id"].(string))
	if job.Status != domain.JobStatusDone {
		t.Fatalf("job status = %s (%s)", job.Status, job.Message)
	}
	if job.ResultArtifactID == "" {
		t.Fatal("done job should reference its printable document")
	}

	rr = e.do(t, "GET", "/v1/jobs/"+job.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get job: status %d", rr.Code)
	}
}

func TestGenerateCampaignPackValidation(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	rr := e.do(t, "POST", "/v1/campaigns/"+id+"/generate/campaign-pack", map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing story_prompt: status = %d, want 400", rr.Code)
	}

	rr = e.do(t, "POST", "/v1/campaigns/nope/generate/campaign-pack",
		map[string]string{"story_prompt": "x"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown campaign: status = %d, want 404", rr.Code)
	}
}

func TestGenerateMapDefaultsDimensions(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	rr := e.do(t, "POST", "/v1/campaigns/"+id+"/generate/map", map[string]int{})
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	var resp map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	job := e.waitTerminal(t, resp["id"].(string))
	if job.Status != domain.JobStatusDone {
		t.Fatalf("job status = %s (%s)", job.Status, job.Message)
	}
}

func TestGenerateBackstory(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	rr := e.do(t, "POST", "/v1/campaigns/"+id+"/generate/backstory",
		map[string]string{"character_name": "Mira", "concept": "tiefling archivist"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	var resp map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp["kind"] != string(domain.ArtifactKindBackstory) {
		t.Fatalf("kind = %v", resp["kind"])
	}
	if resp["text_content"] != "Generated text." {
		t.Fatalf("text_content = %v", resp["text_content"])
	}
}

func TestGenerateBackstoryUpstreamFailure(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")
	e.text.err = &domain.GenerationError{Err: errors.New("rate limited")}

	rr := e.do(t, "POST", "/v1/campaigns/"+id+"/generate/backstory",
		map[string]string{"character_name": "Mira"})
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if len(e.artifacts.list) != 0 {
		t.Fatal("no artifact should be stored on failure")
	}
}

func TestArtifactDownloadText(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")
	artifact, err := e.artifacts.Create(context.Background(), domain.NewArtifact{
		CampaignID:  id,
		Kind:        domain.ArtifactKindPlotHooks,
		Title:       "Plot hooks",
		TextContent: "1. The bell rings itself.",
	})
	if err != nil {
		t.Fatalf("seed artifact: %v", err)
	}

	rr := e.do(t, "GET", "/v1/artifacts/"+artifact.ID+"/download", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if rr.Body.String() != "1. The bell rings itself." {
		t.Fatalf("body = %q", rr.Body)
	}
}

func TestCampaignZipBundlesArtifacts(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	rr := e.do(t, "POST", "/v1/campaigns/"+id+"/generate/campaign-pack",
		map[string]string{"story_prompt": "x"})
	var resp map[string]any
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	e.waitTerminal(t, resp["id"].(string))

	rr = e.do(t, "GET", "/v1/campaigns/"+id+"/artifacts.zip", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if rr.Body.Len() == 0 {
		t.Fatal("empty archive body")
	}
}

func TestCampaignZipEmptyCampaign(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	rr := e.do(t, "GET", "/v1/campaigns/"+id+"/artifacts.zip", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestUploadPortraits(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("files", "Mira Face.PNG")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write([]byte("\x89PNG-stub"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/v1/campaigns/"+id+"/uploads", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	var resp struct {
		Stored []string `json:"stored"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.Stored) != 1 || resp.Stored[0] != "Mira_Face.png" {
		t.Fatalf("stored = %v", resp.Stored)
	}
}

func TestUploadPortraitsRejectsOtherTypes(t *testing.T) {
	e := newEnv(t)
	id := e.createCampaign(t, "c")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, _ := mw.CreateFormFile("files", "notes.pdf")
	_, _ = fw.Write([]byte("%PDF"))
	_ = mw.Close()

	req := httptest.NewRequest("POST", "/v1/campaigns/"+id+"/uploads", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rr := e.do(t, "GET", "/v1/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}
