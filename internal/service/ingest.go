package service

import (
	"context"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/dedup"
	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"github.com/Anantaverma20/NovaIQ/internal/logger"
	"github.com/Anantaverma20/NovaIQ/internal/source"
	"github.com/google/uuid"
)

// IngestService orchestrates the ingestion pipeline:
// fetch -> deduplicate -> persist -> (optional) vector index.
// Runs are serialized by the run ledger; every downstream mutation is
// idempotent, so a retried trigger cannot duplicate records.
type IngestService struct {
	articles ArticleStore
	runs     RunStore
	src      source.Source
	vectors  VectorStore
	logger   *logger.Logger

	reindexLimit int
}

// IngestServiceConfig holds tunables for the ingest service.
type IngestServiceConfig struct {
	ReindexLimit int // max unindexed records per reindex pass
}

// NewIngestService creates a new ingest service.
// Parameters:
//   - articles: record store adapter.
//   - runs: run ledger.
//   - src: external fetch source.
//   - vectors: vector store adapter (enabled or disabled).
//   - log: logger instance.
//   - cfg: service tunables; nil uses defaults.
// Returns:
//   - *IngestService: initialized service.
func NewIngestService(
	articles ArticleStore,
	runs RunStore,
	src source.Source,
	vectors VectorStore,
	log *logger.Logger,
	cfg *IngestServiceConfig,
) *IngestService {
	reindexLimit := 100
	if cfg != nil && cfg.ReindexLimit > 0 {
		reindexLimit = cfg.ReindexLimit
	}
	return &IngestService{
		articles:     articles,
		runs:         runs,
		src:          src,
		vectors:      vectors,
		logger:       log,
		reindexLimit: reindexLimit,
	}
}

func (s *IngestService) log(ctx context.Context) *logger.Logger {
	if ctx != nil {
		return logger.FromContext(ctx)
	}
	return s.logger
}

// Run executes one ingestion run to completion and returns the finalized
// ledger entry. A concurrent trigger fails fast with domain.ErrRunInProgress.
// A fetch failure marks the run failed; per-candidate storage failures and
// vector indexing failures are recorded but do not fail the run.
func (s *IngestService) Run(ctx context.Context, query string, maxResults int) (*domain.IngestionRun, error) {
	run, err := s.runs.Begin(ctx, query)
	if err != nil {
		return nil, err
	}
	ctx = logger.SetRunID(ctx, run.ID)

	s.log(ctx).WithFields(logger.Fields{
		"query":       query,
		"max_results": maxResults,
	}).Info("Ingestion run started")

	candidates, err := s.src.Search(ctx, query, maxResults)
	if err != nil {
		return s.fail(ctx, run, err)
	}
	run.FetchedCount = len(candidates)

	normalized := make([]dedup.Normalized, len(candidates))
	for i, c := range candidates {
		normalized[i] = dedup.Normalize(c)
	}

	fresh, dupes, err := dedup.Partition(normalized, func(urlHash, contentHash string) (bool, error) {
		return s.articles.ExistsByHash(ctx, urlHash, contentHash)
	})
	if err != nil {
		return s.fail(ctx, run, err)
	}
	run.DuplicateCount = len(dupes)

	inserted := s.persist(ctx, run, fresh)

	if s.vectors.Enabled() && len(inserted) > 0 {
		run.IndexedCount = s.index(ctx, inserted)
	}

	run.Status = domain.RunStatusSucceeded
	if err := s.runs.Finish(ctx, run); err != nil {
		return nil, err
	}

	logger.With(logger.Fields{
		logger.FieldStatus: string(run.Status),
		logger.FieldCount:  run.NewCount,
	}).Info(ctx, "Ingestion run finished: fetched=%d duplicates=%d indexed=%d",
		run.FetchedCount, run.DuplicateCount, run.IndexedCount)

	return run, nil
}

// persist inserts fresh candidates one by one. A storage failure on a single
// candidate is logged and the batch continues. Insert races resolved by the
// storage layer count as duplicates.
func (s *IngestService) persist(ctx context.Context, run *domain.IngestionRun, fresh []dedup.Normalized) []domain.Article {
	now := time.Now().UTC()
	inserted := make([]domain.Article, 0, len(fresh))

	for _, c := range fresh {
		article := &domain.Article{
			ID:          uuid.New().String(),
			URL:         c.URL,
			URLHash:     c.URLHash,
			ContentHash: c.ContentHash,
			Title:       c.Title,
			Body:        c.Body,
			Source:      c.Source,
			PublishedAt: c.PublishedAt,
			FetchedAt:   now,
		}

		winner, created, err := s.articles.InsertIfAbsent(ctx, article)
		if err != nil {
			s.log(ctx).WithError(err).WithField("url", c.URL).Error("Failed to persist candidate")
			continue
		}
		if !created {
			// Lost a cross-run race; the winner already holds this content.
			run.DuplicateCount++
			s.log(ctx).WithField("winner_id", winner.ID).Debug("Candidate raced an existing record")
			continue
		}
		run.NewCount++
		inserted = append(inserted, *winner)
	}
	return inserted
}

// index projects freshly persisted records into the vector store,
// best-effort. Records that fail stay unindexed and are picked up by a
// later Reindex pass.
func (s *IngestService) index(ctx context.Context, articles []domain.Article) int {
	docs := make([]VectorDoc, len(articles))
	for i, a := range articles {
		docs[i] = VectorDoc{ArticleID: a.ID, URL: a.URL, Title: a.Title, Body: a.Body}
	}

	result := s.vectors.Add(ctx, docs)
	if result.Status == VectorStatusDisabled {
		return 0
	}

	now := time.Now().UTC()
	indexed := 0
	for _, id := range result.AddedIDs {
		if err := s.articles.MarkIndexed(ctx, id, now); err != nil {
			s.log(ctx).WithError(err).WithField("article_id", id).Error("Failed to mark article indexed")
			continue
		}
		indexed++
	}
	return indexed
}

func (s *IngestService) fail(ctx context.Context, run *domain.IngestionRun, cause error) (*domain.IngestionRun, error) {
	run.Status = domain.RunStatusFailed
	run.Error = cause.Error()
	if err := s.runs.Finish(ctx, run); err != nil {
		s.log(ctx).WithError(err).Error("Failed to finalize failed run")
	}
	s.log(ctx).WithError(cause).Warn("Ingestion run failed")
	return run, cause
}

// Submit ingests a manually provided article as a single-candidate run,
// flowing through the same dedup, persist, and index steps as a fetched
// batch.
func (s *IngestService) Submit(ctx context.Context, url, title, body string) (*domain.IngestionRun, error) {
	run, err := s.runs.Begin(ctx, "manual:"+dedup.NormalizeURL(url))
	if err != nil {
		return nil, err
	}
	ctx = logger.SetRunID(ctx, run.ID)
	run.FetchedCount = 1

	c := dedup.Normalize(dedup.Candidate{URL: url, Title: title, Body: body, Source: "manual"})

	fresh, dupes, err := dedup.Partition([]dedup.Normalized{c}, func(urlHash, contentHash string) (bool, error) {
		return s.articles.ExistsByHash(ctx, urlHash, contentHash)
	})
	if err != nil {
		return s.fail(ctx, run, err)
	}
	run.DuplicateCount = len(dupes)

	inserted := s.persist(ctx, run, fresh)
	if s.vectors.Enabled() && len(inserted) > 0 {
		run.IndexedCount = s.index(ctx, inserted)
	}

	run.Status = domain.RunStatusSucceeded
	if err := s.runs.Finish(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// ReindexResult reports a reindex pass.
type ReindexResult struct {
	AddedCount   int `json:"added_count"`
	SkippedCount int `json:"skipped_count"`
}

// Reindex backfills vector entries for records persisted while vectors were
// disabled or whose indexing failed. With vectors disabled everything is
// skipped; no error is raised.
func (s *IngestService) Reindex(ctx context.Context) (*ReindexResult, error) {
	pending, err := s.articles.ListUnindexed(ctx, s.reindexLimit)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return &ReindexResult{}, nil
	}

	if !s.vectors.Enabled() {
		return &ReindexResult{SkippedCount: len(pending)}, nil
	}

	indexed := s.index(ctx, pending)
	return &ReindexResult{
		AddedCount:   indexed,
		SkippedCount: len(pending) - indexed,
	}, nil
}
