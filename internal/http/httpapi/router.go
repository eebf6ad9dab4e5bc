package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dndtools/internal/http/handlers"
)

// NewRouter wires every API route onto a chi router.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)

	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/campaigns", func(r chi.Router) {
		r.Post("/", app.CreateCampaign)
		r.Get("/", app.ListCampaigns)

		r.Route("/{campaign_id}", func(r chi.Router) {
			r.Get("/", app.GetCampaign)

			r.Post("/generate/campaign-pack", app.GenerateCampaignPack)
			r.Post("/generate/map", app.GenerateMap)
			r.Post("/generate/portraits-pdf", app.GeneratePortraitsPDF)
			r.Post("/generate/backstory", app.GenerateBackstory)
			r.Post("/generate/plot-hooks", app.GeneratePlotHooks)

			r.Get("/jobs", app.ListCampaignJobs)
			r.Get("/artifacts", app.ListCampaignArtifacts)
			r.Get("/artifacts.zip", app.CampaignZip)

			r.Post("/uploads", app.UploadPortraits)
		})
	})

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Get("/{job_id}", app.GetJob)
	})

	r.Route("/v1/artifacts", func(r chi.Router) {
		r.Get("/{artifact_id}", app.GetArtifact)
		r.Get("/{artifact_id}/download", app.DownloadArtifact)
	})

	return r
}
