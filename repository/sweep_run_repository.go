package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"neurocoin/database"
	"neurocoin/models"

	"github.com/jackc/pgx/v5"
)

// SweepRunRepository implements the SweepRunRepository interface
type SweepRunRepository struct {
	db *database.DB
}

// NewSweepRunRepository creates a new sweep run repository
func NewSweepRunRepository(db *database.DB) *SweepRunRepository {
	return &SweepRunRepository{db: db}
}

// GetByDate checks if a retention sweep ran on a specific date
func (r *SweepRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.SweepRun, error) {
	// Normalize date to start of day
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	query := `
		SELECT id, run_date, entries_deleted, execution_summary, created_at
		FROM sweep_runs
		WHERE run_date = $1
	`

	var run models.SweepRun
	var summaryJSON []byte

	err := r.db.QueryRow(ctx, query, dateOnly).Scan(
		&run.ID,
		&run.RunDate,
		&run.EntriesDeleted,
		&summaryJSON,
		&run.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sweep run for date %s: %w", dateOnly.Format("2006-01-02"), wrapStorageErr(err))
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}

	return &run, nil
}

// Create creates a new sweep run record
func (r *SweepRunRepository) Create(ctx context.Context, run *models.SweepRun) error {
	// Normalize date to start of day
	run.RunDate = time.Date(run.RunDate.Year(), run.RunDate.Month(), run.RunDate.Day(),
		0, 0, 0, 0, run.RunDate.Location())

	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		INSERT INTO sweep_runs (run_date, entries_deleted, execution_summary)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err = r.db.QueryRow(ctx, query,
		run.RunDate,
		run.EntriesDeleted,
		summaryJSON,
	).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sweep run for date %s: %w",
			run.RunDate.Format("2006-01-02"), wrapStorageErr(err))
	}

	return nil
}

// GetLatest returns the most recent sweep run
func (r *SweepRunRepository) GetLatest(ctx context.Context) (*models.SweepRun, error) {
	query := `
		SELECT id, run_date, entries_deleted, execution_summary, created_at
		FROM sweep_runs
		ORDER BY run_date DESC
		LIMIT 1
	`

	var run models.SweepRun
	var summaryJSON []byte

	err := r.db.QueryRow(ctx, query).Scan(
		&run.ID,
		&run.RunDate,
		&run.EntriesDeleted,
		&summaryJSON,
		&run.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest sweep run: %w", wrapStorageErr(err))
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}

	return &run, nil
}
