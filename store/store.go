// Package store persists oracle runs (aggregated entropy curves) to SQLite
// so curves can be listed and re-exported without recomputation.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/oqabench/oqa/errors"
	"github.com/oqabench/oqa/summary"
)

// Run is one persisted oracle computation: the dataset it ran over, the
// aggregation parameters, and the per-step entropy statistics.
type Run struct {
	ID         string
	Dataset    string
	Label      string
	MaxSteps   int
	NumTargets int
	RootCost   float64
	CreatedAt  time.Time
	Steps      []summary.StepStat
}

// RunStore reads and writes runs. The schema is managed by the db package's
// migrations.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore over an open, migrated database.
func NewRunStore(database *sql.DB) *RunStore {
	return &RunStore{db: database}
}

// SaveRun inserts the run and its steps in one transaction. A missing ID is
// filled with a fresh UUID; the stored ID is returned.
func (s *RunStore) SaveRun(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "begin save run")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, dataset, label, max_steps, num_targets, root_cost)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Dataset, run.Label, run.MaxSteps, run.NumTargets, run.RootCost,
	)
	if err != nil {
		tx.Rollback()
		return "", errors.Wrapf(err, "insert run %s", run.ID)
	}

	for _, step := range run.Steps {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_steps (run_id, step, entropy_bits_mean, entropy_bits_std)
			VALUES (?, ?, ?, ?)`,
			run.ID, step.Step, step.MeanBits, step.StdBits,
		)
		if err != nil {
			tx.Rollback()
			return "", errors.Wrapf(err, "insert step %d of run %s", step.Step, run.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrapf(err, "commit run %s", run.ID)
	}
	return run.ID, nil
}

// GetRun loads one run with its steps. Missing ids yield ErrNotFound.
func (s *RunStore) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT dataset, label, max_steps, num_targets, root_cost, created_at
		FROM runs WHERE id = ?`, id,
	).Scan(&run.Dataset, &run.Label, &run.MaxSteps, &run.NumTargets, &run.RootCost, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "run %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load run %s", id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT step, entropy_bits_mean, entropy_bits_std
		FROM run_steps WHERE run_id = ? ORDER BY step`, id)
	if err != nil {
		return nil, errors.Wrapf(err, "load steps of run %s", id)
	}
	defer rows.Close()

	for rows.Next() {
		var step summary.StepStat
		if err := rows.Scan(&step.Step, &step.MeanBits, &step.StdBits); err != nil {
			return nil, errors.Wrapf(err, "scan step of run %s", id)
		}
		step.N = run.NumTargets
		run.Steps = append(run.Steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate steps of run %s", id)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first, without their steps.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset, label, max_steps, num_targets, root_cost, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Dataset, &run.Label, &run.MaxSteps,
			&run.NumTargets, &run.RootCost, &run.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
