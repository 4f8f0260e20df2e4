package domain

import "time"

// Article represents an ingested document after deduplication.
//
// Deduplication strategy:
//   - url_hash: digest of the normalized URL (unique constraint)
//   - content_hash: digest of the normalized body, catching the same
//     content republished under a different URL (unique constraint)
type Article struct {
	ID          string `gorm:"type:text;primaryKey" json:"id"`
	URL         string `gorm:"type:text;not null" json:"url"`
	URLHash     string `gorm:"type:text;not null;uniqueIndex:idx_articles_url_hash" json:"url_hash"`
	ContentHash string `gorm:"type:text;not null;uniqueIndex:idx_articles_content_hash" json:"content_hash"`

	Title  string `gorm:"type:text;not null" json:"title"`
	Body   string `gorm:"type:text;not null" json:"body"`
	Source string `gorm:"type:text;index:idx_articles_source" json:"source"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	FetchedAt   time.Time  `gorm:"index:idx_articles_fetched_at" json:"fetched_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// VectorIndexed and VectorIndexedAt are set together by MarkIndexed and
	// only revert on an explicit re-index request.
	VectorIndexed   bool       `gorm:"index:idx_articles_vector_indexed" json:"vector_indexed"`
	VectorIndexedAt *time.Time `json:"vector_indexed_at,omitempty"`

	// Summarized is written by the downstream summarization collaborator.
	Summarized bool `gorm:"default:false" json:"summarized"`
}

// TableName returns the database table name for Article.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Article) TableName() string {
	return "articles"
}
