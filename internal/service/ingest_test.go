package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/dedup"
	"github.com/Anantaverma20/NovaIQ/internal/domain"
)

func newIngestFixture(src *fakeSource, vectors *fakeVectorStore) (*IngestService, *fakeArticleStore, *fakeRunStore) {
	articles := newFakeArticleStore()
	runs := &fakeRunStore{}
	svc := NewIngestService(articles, runs, src, vectors, testLogger(), nil)
	return svc, articles, runs
}

func TestRunIngestsFreshCandidates(t *testing.T) {
	src := &fakeSource{candidates: []dedup.Candidate{
		{URL: "http://a.com/1", Title: "One", Body: "first article body"},
		{URL: "http://a.com/2", Title: "Two", Body: "second article body"},
	}}
	vectors := &fakeVectorStore{enabled: true}
	svc, articles, _ := newIngestFixture(src, vectors)

	run, err := svc.Run(context.Background(), "test query", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.Status != domain.RunStatusSucceeded {
		t.Errorf("expected succeeded, got %s", run.Status)
	}
	if run.FetchedCount != 2 || run.NewCount != 2 || run.DuplicateCount != 0 {
		t.Errorf("unexpected counts: fetched=%d new=%d dup=%d",
			run.FetchedCount, run.NewCount, run.DuplicateCount)
	}
	if run.IndexedCount != 2 {
		t.Errorf("expected 2 indexed, got %d", run.IndexedCount)
	}
	if run.FinishedAt == nil {
		t.Error("run should be finalized")
	}
	if len(articles.articles) != 2 {
		t.Errorf("expected 2 persisted articles, got %d", len(articles.articles))
	}
	for _, a := range articles.articles {
		if !a.VectorIndexed {
			t.Errorf("article %s should be marked indexed", a.URL)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	src := &fakeSource{candidates: []dedup.Candidate{
		{URL: "http://a.com/1", Title: "One", Body: "first article body"},
	}}
	svc, articles, _ := newIngestFixture(src, &fakeVectorStore{})

	first, err := svc.Run(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.NewCount != 1 {
		t.Errorf("first run should insert 1, got %d", first.NewCount)
	}
	if second.NewCount != 0 || second.DuplicateCount != 1 {
		t.Errorf("second run should see only duplicates: new=%d dup=%d",
			second.NewCount, second.DuplicateCount)
	}
	if len(articles.articles) != 1 {
		t.Errorf("expected 1 article after repeated runs, got %d", len(articles.articles))
	}
}

func TestRunTrailingSlashVariantIsDuplicate(t *testing.T) {
	src := &fakeSource{candidates: []dedup.Candidate{
		{URL: "http://a.com/1", Title: "One", Body: "body one"},
		{URL: "http://a.com/1/", Title: "One again", Body: "body two"},
	}}
	svc, articles, _ := newIngestFixture(src, &fakeVectorStore{})

	run, err := svc.Run(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.NewCount != 1 || run.DuplicateCount != 1 {
		t.Errorf("expected 1 new + 1 dup, got new=%d dup=%d", run.NewCount, run.DuplicateCount)
	}
	if len(articles.articles) != 1 {
		t.Errorf("expected 1 article, got %d", len(articles.articles))
	}
}

func TestRunConflictWhileRunning(t *testing.T) {
	svc, _, runs := newIngestFixture(&fakeSource{}, &fakeVectorStore{})
	runs.running = true

	_, err := svc.Run(context.Background(), "q", 10)
	if !errors.Is(err, domain.ErrRunInProgress) {
		t.Errorf("expected ErrRunInProgress, got %v", err)
	}
}

func TestRunFetchFailureFinalizesRun(t *testing.T) {
	fetchErr := &domain.FetchError{Source: "fake", Err: errFakeBoom}
	src := &fakeSource{err: fetchErr}
	svc, _, runs := newIngestFixture(src, &fakeVectorStore{})

	run, err := svc.Run(context.Background(), "q", 10)
	if err == nil {
		t.Fatal("expected error")
	}
	if run == nil || run.Status != domain.RunStatusFailed {
		t.Fatalf("run should be finalized failed, got %+v", run)
	}
	if run.Error == "" {
		t.Error("failure detail should be recorded on the run")
	}
	if runs.running {
		t.Error("run lock should be released after failure")
	}

	// Lock released, a new run can start.
	if _, err := svc.Run(context.Background(), "q", 10); err == nil {
		t.Fatal("expected fetch error again")
	}
}

func TestRunDisabledVectorsLeavesUnindexed(t *testing.T) {
	src := &fakeSource{candidates: []dedup.Candidate{
		{URL: "http://a.com/1", Title: "One", Body: "body text"},
	}}
	svc, articles, _ := newIngestFixture(src, &fakeVectorStore{enabled: false})

	run, err := svc.Run(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != domain.RunStatusSucceeded {
		t.Errorf("disabled vectors must not fail the run, got %s", run.Status)
	}
	if run.IndexedCount != 0 {
		t.Errorf("nothing should be indexed, got %d", run.IndexedCount)
	}

	pending, _ := articles.ListUnindexed(context.Background(), 10)
	if len(pending) != 1 {
		t.Errorf("article should stay unindexed for later backfill, got %d pending", len(pending))
	}
}

func TestSubmitDeduplicates(t *testing.T) {
	svc, articles, _ := newIngestFixture(&fakeSource{}, &fakeVectorStore{})

	first, err := svc.Submit(context.Background(), "http://a.com/manual", "Manual", "manual body text")
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.NewCount != 1 {
		t.Errorf("first submit should insert, got new=%d", first.NewCount)
	}

	second, err := svc.Submit(context.Background(), "http://a.com/manual/", "Manual", "different body")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.NewCount != 0 || second.DuplicateCount != 1 {
		t.Errorf("url variant should be a duplicate: new=%d dup=%d",
			second.NewCount, second.DuplicateCount)
	}
	if len(articles.articles) != 1 {
		t.Errorf("expected 1 article, got %d", len(articles.articles))
	}
}

func TestReindexBackfills(t *testing.T) {
	vectors := &fakeVectorStore{enabled: true}
	svc, articles, _ := newIngestFixture(&fakeSource{}, vectors)

	now := time.Now().UTC()
	articles.add("http://a.com/1", "One", "body one", now.Add(-2*time.Hour))
	articles.add("http://a.com/2", "Two", "body two", now.Add(-1*time.Hour))

	result, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AddedCount != 2 || result.SkippedCount != 0 {
		t.Errorf("expected 2 added, got added=%d skipped=%d", result.AddedCount, result.SkippedCount)
	}

	again, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.AddedCount != 0 {
		t.Errorf("second pass should find nothing, got %d", again.AddedCount)
	}
}

func TestReindexDisabledSkipsAll(t *testing.T) {
	svc, articles, _ := newIngestFixture(&fakeSource{}, &fakeVectorStore{enabled: false})
	articles.add("http://a.com/1", "One", "body one", time.Now().UTC())

	result, err := svc.Reindex(context.Background())
	if err != nil {
		t.Fatalf("disabled vectors must not error: %v", err)
	}
	if result.AddedCount != 0 || result.SkippedCount != 1 {
		t.Errorf("expected everything skipped, got added=%d skipped=%d",
			result.AddedCount, result.SkippedCount)
	}
}
