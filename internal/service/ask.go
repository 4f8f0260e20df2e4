package service

import (
	"context"
	"sort"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"github.com/Anantaverma20/NovaIQ/internal/logger"
)

const (
	// BackendVector marks an answer sourced from the vector index.
	BackendVector = "vector"
	// BackendKeyword marks an answer sourced from the keyword fallback.
	BackendKeyword = "keyword"
)

// AskSource is one retrieved article reference in an answer.
type AskSource struct {
	ArticleID string  `json:"article_id"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Score     float32 `json:"score"`
}

// AskResponse is the retrieval result for a question. The shape is identical
// whichever backend produced it; UsedBackend tells the caller which one did.
type AskResponse struct {
	Question    string      `json:"question"`
	Sources     []AskSource `json:"sources"`
	UsedBackend string      `json:"used_backend"`
}

// AskService answers questions over the ingested corpus. The backend is
// selected by vector enablement alone: enabled vectors answer every question,
// empty results included; keyword overlap over recent records serves
// disabled deployments. A vector backend failure degrades to the keyword
// path rather than failing the request.
type AskService struct {
	articles ArticleStore
	vectors  VectorStore
	logger   *logger.Logger

	topK      int
	scanLimit int
}

// NewAskService creates a new ask service.
// Parameters:
//   - articles: record store adapter.
//   - vectors: vector store adapter (enabled or disabled).
//   - log: logger instance.
//   - topK: number of sources to return.
//   - scanLimit: upper bound on records scanned by the keyword fallback.
// Returns:
//   - *AskService: initialized service.
func NewAskService(articles ArticleStore, vectors VectorStore, log *logger.Logger, topK, scanLimit int) *AskService {
	if topK <= 0 {
		topK = 5
	}
	if scanLimit <= 0 {
		scanLimit = 500
	}
	return &AskService{
		articles:  articles,
		vectors:   vectors,
		logger:    log,
		topK:      topK,
		scanLimit: scanLimit,
	}
}

// Ask retrieves the most relevant sources for a question. With vectors
// enabled the answer carries the vector backend label even when no source
// matches; only a vector backend failure degrades to the keyword path.
func (s *AskService) Ask(ctx context.Context, question string) (*AskResponse, error) {
	start := time.Now()

	if s.vectors.Enabled() {
		resp, err := s.askVector(ctx, question)
		if err == nil {
			s.logOutcome(ctx, resp, start, false)
			return resp, nil
		}

		logger.FromContext(ctx).WithError(err).Warn("Vector retrieval failed, degrading to keyword search")
		resp, kerr := s.askKeyword(ctx, question)
		if kerr != nil {
			return nil, kerr
		}
		s.logOutcome(ctx, resp, start, true)
		return resp, nil
	}

	resp, err := s.askKeyword(ctx, question)
	if err != nil {
		return nil, err
	}
	s.logOutcome(ctx, resp, start, false)
	return resp, nil
}

// logOutcome records the answered question. degraded distinguishes a
// keyword answer caused by a vector backend failure from one served because
// vectors are not configured.
func (s *AskService) logOutcome(ctx context.Context, resp *AskResponse, start time.Time, degraded bool) {
	logger.With(logger.Fields{
		logger.FieldBackend:    resp.UsedBackend,
		logger.FieldCount:      len(resp.Sources),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		"degraded":             degraded,
	}).Info(ctx, "Question answered")
}

// askVector queries the vector index and hydrates matches from the record
// store. Matches whose record has disappeared are dropped.
func (s *AskService) askVector(ctx context.Context, question string) (*AskResponse, error) {
	matches, err := s.vectors.Query(ctx, question, s.topK)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &AskResponse{Question: question, Sources: []AskSource{}, UsedBackend: BackendVector}, nil
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ArticleID
	}
	articles, err := s.articles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Article, len(articles))
	for i := range articles {
		byID[articles[i].ID] = &articles[i]
	}

	sources := make([]AskSource, 0, len(matches))
	for _, m := range matches {
		a, ok := byID[m.ArticleID]
		if !ok {
			continue
		}
		sources = append(sources, AskSource{
			ArticleID: a.ID,
			URL:       a.URL,
			Title:     a.Title,
			Snippet:   snippet(a.Body),
			Score:     m.Score,
		})
	}
	return &AskResponse{Question: question, Sources: sources, UsedBackend: BackendVector}, nil
}

// askKeyword scores recent records by distinct-term overlap with the
// question. Ties break toward the most recently fetched record. Records with
// zero overlap are never returned.
func (s *AskService) askKeyword(ctx context.Context, question string) (*AskResponse, error) {
	terms := termSet(question)

	articles, err := s.articles.ListRecent(ctx, s.scanLimit, 0)
	if err != nil {
		return nil, err
	}

	type scored struct {
		article *domain.Article
		score   int
	}
	ranked := make([]scored, 0, len(articles))
	for i := range articles {
		sc := keywordScore(terms, &articles[i])
		if sc == 0 {
			continue
		}
		ranked = append(ranked, scored{article: &articles[i], score: sc})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].article.FetchedAt.After(ranked[j].article.FetchedAt)
	})

	if len(ranked) > s.topK {
		ranked = ranked[:s.topK]
	}

	sources := make([]AskSource, 0, len(ranked))
	for _, r := range ranked {
		sources = append(sources, AskSource{
			ArticleID: r.article.ID,
			URL:       r.article.URL,
			Title:     r.article.Title,
			Snippet:   snippet(r.article.Body),
			Score:     float32(r.score),
		})
	}
	return &AskResponse{Question: question, Sources: sources, UsedBackend: BackendKeyword}, nil
}

const snippetLength = 280

// snippet truncates a body to a display-sized excerpt on a rune boundary.
func snippet(body string) string {
	runes := []rune(body)
	if len(runes) <= snippetLength {
		return body
	}
	return string(runes[:snippetLength]) + "..."
}
