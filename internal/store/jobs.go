// internal/store/jobs.go
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Job statuses as persisted.
const (
	JobStatusActive    = "active"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
	JobStatusCancelled = "cancelled"
)

// Job is one archive-rename run.
type Job struct {
	ID         int64
	SessionID  int64
	Source     string
	Status     string
	TotalFiles int
	Renamed    int
	Failed     int
	Skipped    int
	Elapsed    time.Duration
	StartedAt  time.Time
	FinishedAt *time.Time
}

// CreateJob records a started job and returns its ID.
func (s *Store) CreateJob(sessionID int64, source string, totalFiles int) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO jobs (session_id, source, status, total_files, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		sessionID, source, JobStatusActive, totalFiles, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	return result.LastInsertId()
}

// FinishJob records a job's terminal status and tallies.
func (s *Store) FinishJob(id int64, status string, renamed, failed, skipped int, elapsed time.Duration) error {
	result, err := s.db.Exec(`
		UPDATE jobs
		SET status = ?, renamed = ?, failed = ?, skipped = ?, elapsed_ms = ?, finished_at = ?
		WHERE id = ?`,
		status, renamed, failed, skipped, elapsed.Milliseconds(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJob returns one job by ID.
func (s *Store) GetJob(id int64) (*Job, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, source, status, total_files, renamed, failed, skipped, elapsed_ms, started_at, finished_at
		FROM jobs WHERE id = ?`,
		id,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// ListJobs returns a session's jobs, newest first.
func (s *Store) ListJobs(sessionID int64, limit int) ([]*Job, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, source, status, total_files, renamed, failed, skipped, elapsed_ms, started_at, finished_at
		FROM jobs WHERE session_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ActiveJob returns the session's running job, or ErrNotFound.
func (s *Store) ActiveJob(sessionID int64) (*Job, error) {
	row := s.db.QueryRow(`
		SELECT id, session_id, source, status, total_files, renamed, failed, skipped, elapsed_ms, started_at, finished_at
		FROM jobs WHERE session_id = ? AND status = ?
		ORDER BY id DESC LIMIT 1`,
		sessionID, JobStatusActive,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("active job: %w", err)
	}
	return job, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var elapsedMS int64
	if err := row.Scan(
		&job.ID, &job.SessionID, &job.Source, &job.Status,
		&job.TotalFiles, &job.Renamed, &job.Failed, &job.Skipped,
		&elapsedMS, &job.StartedAt, &job.FinishedAt,
	); err != nil {
		return nil, err
	}
	job.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &job, nil
}
