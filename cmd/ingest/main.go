package main

import (
	"context"
	"flag"

	"github.com/Anantaverma20/NovaIQ/internal/config"
	"github.com/Anantaverma20/NovaIQ/internal/logger"
	"github.com/Anantaverma20/NovaIQ/internal/repository"
	"github.com/Anantaverma20/NovaIQ/internal/service"
	"github.com/Anantaverma20/NovaIQ/internal/source/websearch"
)

// One-shot ingestion runner for cron and manual use. Exercises the exact
// pipeline the API serves, including run serialization, so a scheduled run
// and an API trigger can never double-ingest.
func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "novaiq-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	query := flag.String("query", "", "Search query (defaults to configured default query)")
	maxResults := flag.Int("max", 0, "Maximum number of results to fetch")
	reindex := flag.Bool("reindex", false, "Backfill vector entries instead of ingesting")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
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

	if *reindex {
		result, err := ingestService.Reindex(ctx)
		if err != nil {
			appLogger.WithError(err).Fatal("Reindex failed")
		}
		appLogger.WithFields(logger.Fields{
			"added":   result.AddedCount,
			"skipped": result.SkippedCount,
		}).Info("Reindex completed")
		return
	}

	q := *query
	if q == "" {
		q = cfg.Ingest.DefaultQuery
	}
	max := *maxResults
	if max <= 0 {
		max = cfg.Ingest.MaxResults
	}

	run, err := ingestService.Run(ctx, q, max)
	if err != nil {
		appLogger.WithError(err).Fatal("Ingestion run failed")
	}

	appLogger.WithFields(logger.Fields{
		"run_id":     run.ID,
		"fetched":    run.FetchedCount,
		"new":        run.NewCount,
		"duplicates": run.DuplicateCount,
		"indexed":    run.IndexedCount,
	}).Info("Ingestion run completed")
}

// buildVectorStore mirrors the API server wiring: vectors are optional and
// any backend failure degrades to the disabled store.
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
