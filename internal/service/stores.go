package service

import (
	"context"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/domain"
)

// ArticleStore is the record store boundary the services depend on. The
// gorm-backed repository implements it; tests use in-memory fakes.
type ArticleStore interface {
	InsertIfAbsent(ctx context.Context, article *domain.Article) (*domain.Article, bool, error)
	ExistsByHash(ctx context.Context, urlHash, contentHash string) (bool, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Article, error)
	ListUnindexed(ctx context.Context, limit int) ([]domain.Article, error)
	MarkIndexed(ctx context.Context, id string, at time.Time) error
	ListRecent(ctx context.Context, limit, offset int) ([]domain.Article, error)
}

// RunStore is the run ledger boundary.
type RunStore interface {
	Begin(ctx context.Context, query string) (*domain.IngestionRun, error)
	Finish(ctx context.Context, run *domain.IngestionRun) error
}
