package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/config"
	"github.com/Anantaverma20/NovaIQ/internal/dedup"
	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func testArticle(url, body string) *domain.Article {
	n := dedup.Normalize(dedup.Candidate{URL: url, Title: "Title", Body: body})
	return &domain.Article{
		ID:          uuid.New().String(),
		URL:         n.URL,
		URLHash:     n.URLHash,
		ContentHash: n.ContentHash,
		Title:       "Title",
		Body:        body,
		Source:      "test",
		FetchedAt:   time.Now().UTC(),
	}
}

func TestInsertIfAbsentCreatesOnce(t *testing.T) {
	repo := NewArticleRepository(testDB(t))
	ctx := context.Background()

	first := testArticle("http://a.com/1", "body one")
	winner, created, err := repo.InsertIfAbsent(ctx, first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("first insert should create")
	}
	if winner.ID != first.ID {
		t.Errorf("winner should be the inserted record, got %s", winner.ID)
	}

	// Same URL, different body: url_hash collision.
	second := testArticle("http://a.com/1", "different body")
	winner, created, err = repo.InsertIfAbsent(ctx, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("second insert should lose the conflict")
	}
	if winner.ID != first.ID {
		t.Errorf("loser should receive the winning record, got %s want %s", winner.ID, first.ID)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 stored article, got %d", count)
	}
}

func TestInsertIfAbsentContentCollision(t *testing.T) {
	repo := NewArticleRepository(testDB(t))
	ctx := context.Background()

	first := testArticle("http://a.com/original", "identical content")
	if _, _, err := repo.InsertIfAbsent(ctx, first); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	mirror := testArticle("http://b.com/mirror", "identical content")
	winner, created, err := repo.InsertIfAbsent(ctx, mirror)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("content collision should not create a second record")
	}
	if winner.URL != first.URL {
		t.Errorf("winner should be the original, got %s", winner.URL)
	}
}

func TestExistsByHash(t *testing.T) {
	repo := NewArticleRepository(testDB(t))
	ctx := context.Background()

	a := testArticle("http://a.com/1", "some body")
	if _, _, err := repo.InsertIfAbsent(ctx, a); err != nil {
		t.Fatalf("seed insert: %v", err)
	}

	exists, err := repo.ExistsByHash(ctx, a.URLHash, "no-such-content-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("url hash match should report exists")
	}

	exists, err = repo.ExistsByHash(ctx, "no-such-url-hash", a.ContentHash)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("content hash match should report exists")
	}

	exists, err = repo.ExistsByHash(ctx, "no-such-url-hash", "no-such-content-hash")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("unknown hashes should not report exists")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewArticleRepository(testDB(t))

	_, err := repo.GetByID(context.Background(), uuid.New().String())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUnindexedAndMarkIndexed(t *testing.T) {
	repo := NewArticleRepository(testDB(t))
	ctx := context.Background()

	a := testArticle("http://a.com/1", "body one")
	a.FetchedAt = time.Now().UTC().Add(-2 * time.Hour)
	b := testArticle("http://a.com/2", "body two")
	b.FetchedAt = time.Now().UTC().Add(-1 * time.Hour)

	for _, art := range []*domain.Article{a, b} {
		if _, _, err := repo.InsertIfAbsent(ctx, art); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}

	pending, err := repo.ListUnindexed(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 unindexed, got %d", len(pending))
	}
	if pending[0].ID != a.ID {
		t.Error("oldest fetch should come first")
	}

	if err := repo.MarkIndexed(ctx, a.ID, time.Now().UTC()); err != nil {
		t.Fatalf("mark indexed: %v", err)
	}

	pending, err = repo.ListUnindexed(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Errorf("expected only the unindexed record, got %d", len(pending))
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.VectorIndexed || got.VectorIndexedAt == nil {
		t.Error("vector_indexed and vector_indexed_at should be set together")
	}
}

func TestListRecentOrdering(t *testing.T) {
	repo := NewArticleRepository(testDB(t))
	ctx := context.Background()

	old := testArticle("http://a.com/old", "old body")
	old.FetchedAt = time.Now().UTC().Add(-2 * time.Hour)
	fresh := testArticle("http://a.com/fresh", "fresh body")
	fresh.FetchedAt = time.Now().UTC()

	for _, art := range []*domain.Article{old, fresh} {
		if _, _, err := repo.InsertIfAbsent(ctx, art); err != nil {
			t.Fatalf("seed insert: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].ID != fresh.ID {
		t.Error("newest fetch should come first")
	}
}
