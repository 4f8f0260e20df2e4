package domain

import "time"

// RunStatus represents the lifecycle status of an ingestion run.
// Values include RunStatusRunning, RunStatusSucceeded, and RunStatusFailed.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// IngestionRun tracks one execution of the ingestion pipeline end to end.
// At most one run may hold status "running" at a time. The partial unique
// index on status enforces this at the database level, so concurrent
// triggers on any driver resolve to a single running row.
type IngestionRun struct {
	ID     string    `gorm:"type:text;primaryKey" json:"id"`
	Query  string    `gorm:"type:text;not null" json:"query"`
	Status RunStatus `gorm:"type:text;not null;index:idx_runs_status;uniqueIndex:idx_runs_one_running,where:status = 'running'" json:"status"`

	FetchedCount   int `gorm:"default:0" json:"fetched_count"`
	NewCount       int `gorm:"default:0" json:"new_count"`
	DuplicateCount int `gorm:"default:0" json:"duplicate_count"`
	IndexedCount   int `gorm:"default:0" json:"indexed_count"`

	Error string `gorm:"type:text" json:"error,omitempty"`

	StartedAt  time.Time  `gorm:"index:idx_runs_started_at" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TableName returns the database table name for IngestionRun.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (IngestionRun) TableName() string {
	return "ingestion_runs"
}
