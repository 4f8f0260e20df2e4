package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/dedup"
	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"github.com/Anantaverma20/NovaIQ/internal/logger"
	"github.com/google/uuid"
)

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard})
}

// fakeArticleStore is an in-memory ArticleStore that mirrors the uniqueness
// semantics of the real repository.
type fakeArticleStore struct {
	articles  map[string]*domain.Article // by ID
	insertErr error
}

func newFakeArticleStore() *fakeArticleStore {
	return &fakeArticleStore{articles: make(map[string]*domain.Article)}
}

func (f *fakeArticleStore) findByHash(urlHash, contentHash string) *domain.Article {
	for _, a := range f.articles {
		if a.URLHash == urlHash || a.ContentHash == contentHash {
			return a
		}
	}
	return nil
}

func (f *fakeArticleStore) InsertIfAbsent(_ context.Context, article *domain.Article) (*domain.Article, bool, error) {
	if f.insertErr != nil {
		return nil, false, f.insertErr
	}
	if existing := f.findByHash(article.URLHash, article.ContentHash); existing != nil {
		return existing, false, nil
	}
	cp := *article
	f.articles[cp.ID] = &cp
	return &cp, true, nil
}

func (f *fakeArticleStore) ExistsByHash(_ context.Context, urlHash, contentHash string) (bool, error) {
	return f.findByHash(urlHash, contentHash) != nil, nil
}

func (f *fakeArticleStore) GetByIDs(_ context.Context, ids []string) ([]domain.Article, error) {
	out := make([]domain.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := f.articles[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeArticleStore) ListUnindexed(_ context.Context, limit int) ([]domain.Article, error) {
	var out []domain.Article
	for _, a := range f.articles {
		if !a.VectorIndexed {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FetchedAt.Before(out[j].FetchedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeArticleStore) MarkIndexed(_ context.Context, id string, at time.Time) error {
	a, ok := f.articles[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.VectorIndexed = true
	a.VectorIndexedAt = &at
	return nil
}

func (f *fakeArticleStore) ListRecent(_ context.Context, limit, offset int) ([]domain.Article, error) {
	out := make([]domain.Article, 0, len(f.articles))
	for _, a := range f.articles {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FetchedAt.After(out[j].FetchedAt) })
	if offset >= len(out) {
		return []domain.Article{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeArticleStore) add(url, title, body string, fetchedAt time.Time) *domain.Article {
	n := dedup.Normalize(dedup.Candidate{URL: url, Title: title, Body: body})
	a := &domain.Article{
		ID:          uuid.New().String(),
		URL:         n.URL,
		URLHash:     n.URLHash,
		ContentHash: n.ContentHash,
		Title:       title,
		Body:        body,
		FetchedAt:   fetchedAt,
	}
	f.articles[a.ID] = a
	return a
}

// fakeRunStore enforces the single-running-row invariant in memory.
type fakeRunStore struct {
	runs    []*domain.IngestionRun
	running bool
}

func (f *fakeRunStore) Begin(_ context.Context, query string) (*domain.IngestionRun, error) {
	if f.running {
		return nil, domain.ErrRunInProgress
	}
	f.running = true
	run := &domain.IngestionRun{
		ID:        uuid.New().String(),
		Query:     query,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeRunStore) Finish(_ context.Context, run *domain.IngestionRun) error {
	f.running = false
	now := time.Now().UTC()
	run.FinishedAt = &now
	return nil
}

// fakeSource returns canned candidates or a canned error.
type fakeSource struct {
	candidates []dedup.Candidate
	err        error
}

func (f *fakeSource) GetSourceID() string { return "fake" }
func (f *fakeSource) Configured() bool    { return true }

func (f *fakeSource) Search(_ context.Context, _ string, maxResults int) ([]dedup.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.candidates) > maxResults {
		return f.candidates[:maxResults], nil
	}
	return f.candidates, nil
}

// fakeVectorStore records Add calls and serves canned query matches.
type fakeVectorStore struct {
	enabled  bool
	added    [][]VectorDoc
	matches  []Match
	queryErr error
	failAll  bool
}

func (f *fakeVectorStore) Enabled() bool { return f.enabled }

func (f *fakeVectorStore) Add(_ context.Context, docs []VectorDoc) AddResult {
	if !f.enabled {
		return AddResult{Status: VectorStatusDisabled}
	}
	f.added = append(f.added, docs)
	if f.failAll {
		return AddResult{Status: VectorStatusPartial, FailedCount: len(docs)}
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ArticleID
	}
	return AddResult{Status: VectorStatusOK, AddedIDs: ids, AddedCount: len(ids)}
}

func (f *fakeVectorStore) Query(_ context.Context, _ string, topK int) ([]Match, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.matches) > topK {
		return f.matches[:topK], nil
	}
	return f.matches, nil
}

func (f *fakeVectorStore) Delete(context.Context, string) error { return nil }

func (f *fakeVectorStore) Count(context.Context) (uint64, error) {
	return uint64(len(f.added)), nil
}

var errFakeBoom = errors.New("boom")
