package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository handles article persistence. It is the storage boundary
// that enforces the url_hash / content_hash uniqueness invariant.
type ArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ArticleRepository: repository instance bound to db.
func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// InsertIfAbsent atomically inserts the article unless a record with the same
// url_hash or content_hash already exists. Concurrent inserts for the same
// hash resolve to exactly one row; losers observe inserted=false and receive
// the winning record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - article: candidate record; ID must be pre-assigned.
// Returns:
//   - *domain.Article: the persisted record (winner on conflict).
//   - bool: true if this call created the record.
//   - error: non-nil if the insert or conflict lookup fails.
func (r *ArticleRepository) InsertIfAbsent(ctx context.Context, article *domain.Article) (*domain.Article, bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(article)
	if res.Error != nil {
		return nil, false, &domain.StorageError{Op: "insert", Err: res.Error}
	}
	if res.RowsAffected > 0 {
		return article, true, nil
	}

	existing, err := r.FindByHash(ctx, article.URLHash, article.ContentHash)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindByHash retrieves a record matching either hash of the dedup key.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - urlHash: digest of the normalized URL.
//   - contentHash: digest of the normalized body.
// Returns:
//   - *domain.Article: matching record, or nil with domain.ErrNotFound.
//   - error: non-nil if the lookup fails.
func (r *ArticleRepository) FindByHash(ctx context.Context, urlHash, contentHash string) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).
		Where("url_hash = ? OR content_hash = ?", urlHash, contentHash).
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "find_by_hash", Err: err}
	}
	return &article, nil
}

// ExistsByHash checks whether a record with either hash exists.
func (r *ArticleRepository) ExistsByHash(ctx context.Context, urlHash, contentHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("url_hash = ? OR content_hash = ?", urlHash, contentHash).
		Count(&count).Error
	if err != nil {
		return false, &domain.StorageError{Op: "exists_by_hash", Err: err}
	}
	return count > 0, nil
}

// GetByID retrieves an article by its ID.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	var article domain.Article
	if err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "get_by_id", Err: err}
	}
	return &article, nil
}

// GetByIDs retrieves articles by a list of IDs.
func (r *ArticleRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Article, error) {
	if len(ids) == 0 {
		return []domain.Article{}, nil
	}
	var articles []domain.Article
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&articles).Error; err != nil {
		return nil, &domain.StorageError{Op: "get_by_ids", Err: err}
	}
	return articles, nil
}

// ListUnindexed retrieves articles not yet projected into the vector store.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.Article: unindexed records, oldest fetch first.
//   - error: non-nil if the query fails.
func (r *ArticleRepository) ListUnindexed(ctx context.Context, limit int) ([]domain.Article, error) {
	var articles []domain.Article
	if err := r.db.WithContext(ctx).
		Where("vector_indexed = ?", false).
		Order("fetched_at ASC").
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, &domain.StorageError{Op: "list_unindexed", Err: err}
	}
	return articles, nil
}

// MarkIndexed sets vector_indexed and vector_indexed_at together.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: article ID.
//   - at: indexing timestamp.
// Returns:
//   - error: non-nil if the update fails.
func (r *ArticleRepository) MarkIndexed(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"vector_indexed":    true,
			"vector_indexed_at": at,
		}).Error
	if err != nil {
		return &domain.StorageError{Op: "mark_indexed", Err: err}
	}
	return nil
}

// ListRecent retrieves articles newest-fetch-first with pagination.
func (r *ArticleRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	var articles []domain.Article
	if err := r.db.WithContext(ctx).
		Order("fetched_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, &domain.StorageError{Op: "list_recent", Err: err}
	}
	return articles, nil
}

// Count returns the total number of stored articles.
func (r *ArticleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Article{}).Count(&count).Error; err != nil {
		return 0, &domain.StorageError{Op: "count", Err: err}
	}
	return count, nil
}
