package service

import (
	"context"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/logger"
	"github.com/Anantaverma20/NovaIQ/internal/repository"
	"github.com/google/uuid"
)

// VectorStatus tags the outcome of a vector store mutation.
type VectorStatus string

const (
	VectorStatusOK       VectorStatus = "ok"
	VectorStatusDisabled VectorStatus = "disabled"
	VectorStatusPartial  VectorStatus = "partial"
)

// VectorDoc is a document to be embedded and indexed.
type VectorDoc struct {
	ArticleID string
	URL       string
	Title     string
	Body      string
}

// AddResult reports the outcome of an Add call. Partial batch failure keeps
// the successfully added subset; nothing is rolled back.
type AddResult struct {
	Status      VectorStatus `json:"status"`
	AddedIDs    []string     `json:"-"`
	AddedCount  int          `json:"added_count"`
	FailedCount int          `json:"failed_count"`
}

// Match is a scored article reference returned by a vector query.
type Match struct {
	ArticleID string
	Score     float32
}

// VectorStore is the capability-gated vector index boundary. When disabled,
// every operation returns a well-defined disabled/empty result instead of an
// error, so callers never branch on exceptions to detect unavailability.
type VectorStore interface {
	Enabled() bool
	Add(ctx context.Context, docs []VectorDoc) AddResult
	Query(ctx context.Context, text string, topK int) ([]Match, error)
	Delete(ctx context.Context, articleID string) error
	Count(ctx context.Context) (uint64, error)
}

// EmbeddingProvider abstracts the embedding client for the vector store.
type EmbeddingProvider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// PointIndex abstracts the Qdrant point operations the vector store needs.
type PointIndex interface {
	UpsertBatch(ctx context.Context, pointIDs []string, vectors [][]float32, payloads []*repository.ArticlePayload) error
	Search(ctx context.Context, vector []float32, topK int) ([]repository.SearchResult, error)
	Delete(ctx context.Context, pointID string) error
	Count(ctx context.Context) (uint64, error)
}

// pointNamespace seeds deterministic point IDs. Never change it: re-indexing
// a record must map to the same Qdrant point.
var pointNamespace = uuid.MustParse("7f9c3de2-41ab-5b6f-9c3d-e241ab5b6f9c")

// PointIDForArticle derives the Qdrant point ID from the article ID. The
// derivation is deterministic so repeated indexing of the same record
// overwrites rather than duplicates its vector entry.
func PointIDForArticle(articleID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(articleID)).String()
}

// qdrantVectorStore is the enabled VectorStore backed by an embedding
// provider and a Qdrant collection.
type qdrantVectorStore struct {
	embedding EmbeddingProvider
	index     PointIndex
	batchSize int
	logger    *logger.Logger
}

// NewVectorStore creates the enabled vector store implementation.
// Parameters:
//   - embedding: embedding provider for passages and queries.
//   - index: Qdrant point operations.
//   - batchSize: maximum documents per embedding/upsert batch.
//   - log: logger instance.
// Returns:
//   - VectorStore: enabled implementation.
func NewVectorStore(embedding EmbeddingProvider, index PointIndex, batchSize int, log *logger.Logger) VectorStore {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &qdrantVectorStore{
		embedding: embedding,
		index:     index,
		batchSize: batchSize,
		logger:    log,
	}
}

func (s *qdrantVectorStore) Enabled() bool { return true }

// Add embeds and upserts documents in bounded batches. A failed batch is
// counted and skipped; earlier successes stand.
func (s *qdrantVectorStore) Add(ctx context.Context, docs []VectorDoc) AddResult {
	result := AddResult{Status: VectorStatusOK}
	if len(docs) == 0 {
		return result
	}

	start := time.Now()
	for i := 0; i < len(docs); i += s.batchSize {
		end := i + s.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[i:end]

		if err := s.addBatch(ctx, batch); err != nil {
			result.FailedCount += len(batch)
			s.logger.WithError(err).WithFields(logger.Fields{
				"batch_start": i,
				"batch_size":  len(batch),
			}).Error("Vector batch add failed")
			continue
		}
		for _, d := range batch {
			result.AddedIDs = append(result.AddedIDs, d.ArticleID)
		}
	}

	result.AddedCount = len(result.AddedIDs)
	if result.FailedCount > 0 {
		result.Status = VectorStatusPartial
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		logger.FieldCount:      result.AddedCount,
	}).Info(ctx, "Vector add completed: failed=%d", result.FailedCount)

	return result
}

func (s *qdrantVectorStore) addBatch(ctx context.Context, batch []VectorDoc) error {
	texts := make([]string, len(batch))
	for i, d := range batch {
		texts[i] = d.Title + "\n\n" + d.Body
	}

	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	pointIDs := make([]string, len(batch))
	payloads := make([]*repository.ArticlePayload, len(batch))
	for i, d := range batch {
		pointIDs[i] = PointIDForArticle(d.ArticleID)
		payloads[i] = &repository.ArticlePayload{
			ArticleID: d.ArticleID,
			URL:       d.URL,
			Title:     d.Title,
		}
	}

	return s.index.UpsertBatch(ctx, pointIDs, vectors, payloads)
}

func (s *qdrantVectorStore) Query(ctx context.Context, text string, topK int) ([]Match, error) {
	vector, err := s.embedding.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	results, err := s.index.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		if r.Payload == nil || r.Payload.ArticleID == "" {
			continue
		}
		matches = append(matches, Match{ArticleID: r.Payload.ArticleID, Score: r.Score})
	}
	return matches, nil
}

func (s *qdrantVectorStore) Delete(ctx context.Context, articleID string) error {
	return s.index.Delete(ctx, PointIDForArticle(articleID))
}

func (s *qdrantVectorStore) Count(ctx context.Context) (uint64, error) {
	return s.index.Count(ctx)
}

// disabledVectorStore is the single "disabled" implementation: every
// operation is a no-op with an explicit disabled result.
type disabledVectorStore struct{}

// NewDisabledVectorStore returns the disabled VectorStore implementation,
// used when embedding credentials or the index backend are not configured.
func NewDisabledVectorStore() VectorStore {
	return disabledVectorStore{}
}

func (disabledVectorStore) Enabled() bool { return false }

func (disabledVectorStore) Add(_ context.Context, docs []VectorDoc) AddResult {
	return AddResult{Status: VectorStatusDisabled, FailedCount: 0}
}

func (disabledVectorStore) Query(context.Context, string, int) ([]Match, error) {
	return []Match{}, nil
}

func (disabledVectorStore) Delete(context.Context, string) error {
	return nil
}

func (disabledVectorStore) Count(context.Context) (uint64, error) {
	return 0, nil
}
