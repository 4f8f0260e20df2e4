package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/api"
	"github.com/Anantaverma20/NovaIQ/internal/config"
	"github.com/Anantaverma20/NovaIQ/internal/logger"
	"github.com/Anantaverma20/NovaIQ/internal/repository"
	"github.com/Anantaverma20/NovaIQ/internal/service"
	"github.com/Anantaverma20/NovaIQ/internal/source/websearch"
)

func main() {
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	articleRepo := repository.NewArticleRepository(db)
	runRepo := repository.NewRunRepository(db)

	ctx := context.Background()
	vectorStore, qdrantRepo := buildVectorStore(ctx, cfg, appLogger)
	if qdrantRepo != nil {
		defer qdrantRepo.Close()
	}

	src := websearch.NewAdapter(&websearch.Config{
		BaseURL:          cfg.SearchAPI.BaseURL,
		APIKey:           cfg.SearchAPI.APIKey,
		Timeout:          cfg.SearchAPI.Timeout,
		RetryCount:       cfg.SearchAPI.RetryCount,
		MinContentLength: cfg.Ingest.MinContentLength,
	})

	ingestService := service.NewIngestService(articleRepo, runRepo, src, vectorStore, appLogger, nil)
	askService := service.NewAskService(articleRepo, vectorStore, appLogger,
		cfg.Retrieval.TopK, cfg.Retrieval.KeywordScanLimit)

	router := api.SetupRouter(api.Deps{
		Config:        cfg,
		DB:            db,
		Logger:        appLogger,
		ArticleRepo:   articleRepo,
		RunRepo:       runRepo,
		IngestService: ingestService,
		AskService:    askService,
		VectorStore:   vectorStore,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":            cfg.Server.Port,
			"mode":            cfg.Server.Mode,
			"vectors_enabled": vectorStore.Enabled(),
		}).Info("Starting API server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Forced shutdown")
	}
	appLogger.Info("Server stopped")
}

// buildVectorStore wires the enabled vector store when embedding credentials
// and a Qdrant backend are configured and reachable. Any failure degrades to
// the disabled store; the process still serves ingestion and keyword search.
func buildVectorStore(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (service.VectorStore, *repository.QdrantRepository) {
	if !cfg.VectorsEnabled() {
		appLogger.Info("Vector indexing disabled: embedding or Qdrant not configured")
		return service.NewDisabledVectorStore(), nil
	}

	qdrantRepo, err := repository.NewQdrantRepository(&repository.QdrantConnectionConfig{
		Host:            cfg.Qdrant.Host,
		Port:            cfg.Qdrant.Port,
		Collection:      cfg.Qdrant.Collection,
		APIKey:          cfg.Qdrant.APIKey,
		UseTLS:          cfg.Qdrant.UseTLS,
		VectorDimension: cfg.Embedding.Dimensions,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Qdrant unavailable, vector indexing disabled")
		return service.NewDisabledVectorStore(), nil
	}

	if err := qdrantRepo.EnsureCollection(ctx); err != nil {
		appLogger.WithError(err).Warn("Qdrant collection check failed, vector indexing disabled")
		qdrantRepo.Close()
		return service.NewDisabledVectorStore(), nil
	}

	embedding := service.NewEmbeddingService(&service.EmbeddingConfig{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})

	return service.NewVectorStore(embedding, qdrantRepo, cfg.Ingest.VectorBatchSize, appLogger), qdrantRepo
}
