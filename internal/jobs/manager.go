// Package jobs coordinates rename jobs, enforcing one active job per
// session and handling cancellation.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/unzipr/internal/events"
	"github.com/vmunix/unzipr/internal/processor"
	"github.com/vmunix/unzipr/internal/store"
)

var (
	// ErrSessionBusy is returned when a session already has a running
	// job. Concurrent jobs for one session would interleave their
	// progress updates, so the second submission is rejected instead.
	ErrSessionBusy = errors.New("session already has an active job")

	// ErrNoActiveJob is returned by Cancel when nothing is running.
	ErrNoActiveJob = errors.New("no active job for session")
)

// RunFunc performs the actual work of a job. It must honor ctx
// cancellation. Returning a summary with failures is NOT an error;
// err is reserved for faults that stopped the whole job.
type RunFunc func(ctx context.Context, jobID int64) (*processor.JobSummary, error)

type activeJob struct {
	id     int64
	cancel context.CancelFunc
}

// Manager tracks running jobs per session.
type Manager struct {
	store *store.Store
	bus   *events.Bus // may be nil
	log   *slog.Logger

	mu     sync.Mutex
	active map[int64]*activeJob // sessionID -> job
	g      errgroup.Group
}

// NewManager creates a job manager.
func NewManager(st *store.Store, bus *events.Bus, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:  st,
		bus:    bus,
		log:    log,
		active: make(map[int64]*activeJob),
	}
}

// Start begins a job for the session and returns its ID. The work
// runs in the background; completion is observable through the event
// bus and the job store.
func (m *Manager) Start(ctx context.Context, sessionID int64, source string, totalFiles int, run RunFunc) (int64, error) {
	m.mu.Lock()
	if _, busy := m.active[sessionID]; busy {
		m.mu.Unlock()
		return 0, ErrSessionBusy
	}

	jobID, err := m.store.CreateJob(sessionID, source, totalFiles)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}

	jobCtx, cancel := context.WithCancel(ctx)
	m.active[sessionID] = &activeJob{id: jobID, cancel: cancel}
	m.mu.Unlock()

	m.publish(ctx, &events.JobStarted{
		EventMeta:  events.NewMeta(events.EventJobStarted, events.EntityJob, jobID),
		SessionID:  sessionID,
		Source:     source,
		TotalFiles: totalFiles,
	})
	m.log.Info("job started", "job_id", jobID, "session_id", sessionID, "source", source, "files", totalFiles)

	m.g.Go(func() error {
		defer cancel()
		summary, err := run(jobCtx, jobID)
		cancelled := jobCtx.Err() != nil
		m.finish(sessionID, jobID, summary, err, cancelled)
		if err != nil && !cancelled {
			return err
		}
		return nil
	})

	return jobID, nil
}

// Cancel stops the session's running job. The job winds down
// cooperatively; files already delivered stay delivered.
func (m *Manager) Cancel(sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.active[sessionID]
	if !ok {
		return ErrNoActiveJob
	}
	job.cancel()
	return nil
}

// Active returns the running job ID for a session, if any.
func (m *Manager) Active(sessionID int64) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.active[sessionID]
	if !ok {
		return 0, false
	}
	return job.id, true
}

// Wait blocks until all running jobs have finished and returns the
// first job fault, if any. Cancelled jobs are not faults. Used during
// shutdown after cancelling the parent context, and by the CLI after
// its single job.
func (m *Manager) Wait() error {
	return m.g.Wait()
}

func (m *Manager) finish(sessionID, jobID int64, summary *processor.JobSummary, runErr error, cancelled bool) {
	m.mu.Lock()
	delete(m.active, sessionID)
	m.mu.Unlock()

	switch {
	case runErr != nil && !cancelled:
		m.recordFinish(jobID, store.JobStatusFailed, summary)
		m.publish(context.Background(), &events.JobFailed{
			EventMeta: events.NewMeta(events.EventJobFailed, events.EntityJob, jobID),
			Reason:    runErr.Error(),
		})
		m.log.Error("job failed", "job_id", jobID, "error", runErr)

	case cancelled:
		m.recordFinish(jobID, store.JobStatusCancelled, summary)
		processed := 0
		total := 0
		if summary != nil {
			processed = summary.Renamed + summary.Failed
			total = len(summary.Outcomes)
		}
		m.publish(context.Background(), &events.JobCancelled{
			EventMeta: events.NewMeta(events.EventJobCancelled, events.EntityJob, jobID),
			Processed: processed,
			Total:     total,
		})
		m.log.Info("job cancelled", "job_id", jobID, "processed", processed)

	default:
		m.recordFinish(jobID, store.JobStatusCompleted, summary)
		evt := &events.JobCompleted{
			EventMeta: events.NewMeta(events.EventJobCompleted, events.EntityJob, jobID),
		}
		if summary != nil {
			evt.Renamed = summary.Renamed
			evt.Failed = summary.Failed
			evt.Skipped = summary.Skipped
			evt.ElapsedSeconds = summary.Elapsed.Seconds()
		}
		m.publish(context.Background(), evt)
		m.log.Info("job completed", "job_id", jobID,
			"renamed", evt.Renamed, "failed", evt.Failed, "skipped", evt.Skipped)
	}
}

func (m *Manager) recordFinish(jobID int64, status string, summary *processor.JobSummary) {
	var renamed, failed, skipped int
	var elapsed time.Duration
	if summary != nil {
		renamed = summary.Renamed
		failed = summary.Failed
		skipped = summary.Skipped
		elapsed = summary.Elapsed
	}
	if err := m.store.FinishJob(jobID, status, renamed, failed, skipped, elapsed); err != nil {
		m.log.Error("record job finish", "job_id", jobID, "error", err)
	}
}

func (m *Manager) publish(ctx context.Context, e events.Event) {
	if m.bus == nil {
		return
	}
	_ = m.bus.Publish(ctx, e)
}
