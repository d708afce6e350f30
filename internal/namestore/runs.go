package namestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunRecord summarizes one batch matching run.
type RunRecord struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Total         int
	Mapped        int
	Deferred      int
	SkippedManual int
	Failed        int
}

// CreateRun records the start of a batch matching run.
func (s *Store) CreateRun(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO match_runs (id, started_at) VALUES (?, ?)`,
		id,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun records the outcome counts of a completed batch run.
func (s *Store) FinishRun(ctx context.Context, id string, total, mapped, deferred, skippedManual, failed int) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE match_runs
         SET finished_at = ?, total = ?, mapped = ?, deferred = ?, skipped_manual = ?, failed = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		total, mapped, deferred, skippedManual, failed,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

// LatestRun returns the most recently started run, or ErrNotFound when no
// run has been recorded.
func (s *Store) LatestRun(ctx context.Context) (*RunRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, started_at, finished_at, total, mapped, deferred, skipped_manual, failed
         FROM match_runs ORDER BY started_at DESC LIMIT 1`,
	)

	var (
		record      RunRecord
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := row.Scan(&record.ID, &startedRaw, &finishedRaw, &record.Total, &record.Mapped, &record.Deferred, &record.SkippedManual, &record.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("latest run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("latest run: %w", err)
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		record.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			record.FinishedAt = &finished
		}
	}
	return &record, nil
}
