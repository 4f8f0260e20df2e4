package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Anantaverma20/NovaIQ/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunRepository is the ingestion run ledger. Besides bookkeeping it enforces
// the single-running-row invariant that serializes ingestion.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new RunRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *RunRepository: repository instance bound to db.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Begin creates a run in running status, failing fast with
// domain.ErrRunInProgress when another run is already active. The insert
// itself takes the lock: the partial unique index on status='running'
// rejects a second running row, so overlapping triggers cannot both win
// even under READ COMMITTED on Postgres.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - query: search parameters for the run.
// Returns:
//   - *domain.IngestionRun: the created running row.
//   - error: domain.ErrRunInProgress or a wrapped storage failure.
func (r *RunRepository) Begin(ctx context.Context, query string) (*domain.IngestionRun, error) {
	run := &domain.IngestionRun{
		ID:        uuid.New().String(),
		Query:     query,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrRunInProgress
		}
		return nil, &domain.StorageError{Op: "begin_run", Err: err}
	}
	return run, nil
}

// Finish persists the run's final status, counts, and finished_at. It must
// be called exactly once per Begin, releasing the run lock.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - run: run with final fields set; FinishedAt is stamped here.
// Returns:
//   - error: non-nil if the update fails.
func (r *RunRepository) Finish(ctx context.Context, run *domain.IngestionRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	if err := r.db.WithContext(ctx).Save(run).Error; err != nil {
		return &domain.StorageError{Op: "finish_run", Err: err}
	}
	return nil
}

// List retrieves recent runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]domain.IngestionRun, error) {
	var runs []domain.IngestionRun
	if err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, &domain.StorageError{Op: "list_runs", Err: err}
	}
	return runs, nil
}

// Latest retrieves the most recently started run.
func (r *RunRepository) Latest(ctx context.Context) (*domain.IngestionRun, error) {
	var run domain.IngestionRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "latest_run", Err: err}
	}
	return &run, nil
}

// CountRunning returns the number of runs currently in running status.
func (r *RunRepository) CountRunning(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.IngestionRun{}).
		Where("status = ?", domain.RunStatusRunning).
		Count(&count).Error; err != nil {
		return 0, &domain.StorageError{Op: "count_running", Err: err}
	}
	return count, nil
}
