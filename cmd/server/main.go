package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dndtools/internal/adapter/repo"
	"dndtools/internal/db"
	"dndtools/internal/flowchart"
	"dndtools/internal/http/handlers"
	httpapi "dndtools/internal/http/httpapi"
	"dndtools/internal/infra"
	"dndtools/internal/jobs"
	"dndtools/internal/packgen"
	"dndtools/internal/providers/text"
	"dndtools/internal/render"
	"dndtools/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := db.Init(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize schema")
	}

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize file store")
	}

	generator, err := text.NewOpenAIGenerator(text.OpenAIOptions{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize text generator")
	}

	graphviz := flowchart.NewGraphviz()
	if !graphviz.Available() {
		logger.Warn().Msg("graphviz not found, flowchart raster rendering disabled")
	}

	runner := jobs.NewRunner(jobs.Deps{
		Jobs:            repo.NewJobRepository(dbpool),
		Artifacts:       repo.NewArtifactRepository(dbpool),
		Store:           store,
		Builder:         packgen.NewBuilder(generator, logger),
		Graph:           graphviz,
		Documents:       &render.DocumentRenderer{MaxSceneOptions: cfg.MaxSceneOptions},
		Maps:            &render.MapRenderer{},
		Portraits:       jobs.PortraitsFunc(render.PortraitsPDF),
		Logger:          logger,
		MaxMapLocations: cfg.MaxMapLocations,
	})

	app := &handlers.App{
		Campaigns: repo.NewCampaignRepository(dbpool),
		Jobs:      repo.NewJobRepository(dbpool),
		Artifacts: repo.NewArtifactRepository(dbpool),
		Runner:    runner,
		Text:      generator,
		Store:     store,
		Logger:    logger,
	}

	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
