// internal/jobs/manager_test.go
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/unzipr/internal/events"
	"github.com/vmunix/unzipr/internal/migrations"
	"github.com/vmunix/unzipr/internal/processor"
	"github.com/vmunix/unzipr/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.Schema)
	require.NoError(t, err)
	return db
}

func waitEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return nil
	}
}

func TestManager_StartAndComplete(t *testing.T) {
	st := store.NewStore(setupTestDB(t))
	bus := events.NewBus(nil, testLogger())
	defer bus.Close()
	done := bus.Subscribe(events.EventJobCompleted, 1)

	m := NewManager(st, bus, testLogger())
	jobID, err := m.Start(context.Background(), 7, "season2.zip", 3, func(ctx context.Context, id int64) (*processor.JobSummary, error) {
		return &processor.JobSummary{Renamed: 3, Elapsed: time.Second}, nil
	})
	require.NoError(t, err)

	e := waitEvent(t, done).(*events.JobCompleted)
	assert.Equal(t, jobID, e.EntityID())
	assert.Equal(t, 3, e.Renamed)

	require.NoError(t, m.Wait())
	_, active := m.Active(7)
	assert.False(t, active)

	job, err := st.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, store.JobStatusCompleted, job.Status)
	assert.Equal(t, 3, job.Renamed)
}

func TestManager_SessionBusy(t *testing.T) {
	st := store.NewStore(setupTestDB(t))
	m := NewManager(st, nil, testLogger())

	release := make(chan struct{})
	_, err := m.Start(context.Background(), 7, "a.zip", 1, func(ctx context.Context, id int64) (*processor.JobSummary, error) {
		<-release
		return &processor.JobSummary{}, nil
	})
	require.NoError(t, err)

	// Same session is rejected while running.
	_, err = m.Start(context.Background(), 7, "b.zip", 1, func(ctx context.Context, id int64) (*processor.JobSummary, error) {
		return &processor.JobSummary{}, nil
	})
	assert.ErrorIs(t, err, ErrSessionBusy)

	// A different session is fine.
	_, err = m.Start(context.Background(), 8, "c.zip", 1, func(ctx context.Context, id int64) (*processor.JobSummary, error) {
		return &processor.JobSummary{}, nil
	})
	assert.NoError(t, err)

	close(release)
	require.NoError(t, m.Wait())
}

func TestManager_Cancel(t *testing.T) {
	st := store.NewStore(setupTestDB(t))
	bus := events.NewBus(nil, testLogger())
	defer bus.Close()
	cancelled := bus.Subscribe(events.EventJobCancelled, 1)

	m := NewManager(st, bus, testLogger())
	jobID, err := m.Start(context.Background(), 7, "big.zip", 10, func(ctx context.Context, id int64) (*processor.JobSummary, error) {
		<-ctx.Done()
		return &processor.JobSummary{Renamed: 4, Skipped: 6}, ctx.Err()
	})
	require.NoError(t, err)

	require.NoError(t, m.Cancel(7))

	e := waitEvent(t, cancelled).(*events.JobCancelled)
	assert.Equal(t, jobID, e.EntityID())

	// A cancelled job is not a fault.
	require.NoError(t, m.Wait())
	job, err := st.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, store.JobStatusCancelled, job.Status)
	assert.Equal(t, 4, job.Renamed)
	assert.Equal(t, 6, job.Skipped)
}

func TestManager_CancelIdle(t *testing.T) {
	st := store.NewStore(setupTestDB(t))
	m := NewManager(st, nil, testLogger())

	err := m.Cancel(7)
	assert.ErrorIs(t, err, ErrNoActiveJob)
}

func TestManager_RunError(t *testing.T) {
	st := store.NewStore(setupTestDB(t))
	bus := events.NewBus(nil, testLogger())
	defer bus.Close()
	failed := bus.Subscribe(events.EventJobFailed, 1)

	m := NewManager(st, bus, testLogger())
	boom := errors.New("archive is corrupt")
	jobID, err := m.Start(context.Background(), 7, "bad.zip", 0, func(ctx context.Context, id int64) (*processor.JobSummary, error) {
		return nil, boom
	})
	require.NoError(t, err)

	e := waitEvent(t, failed).(*events.JobFailed)
	assert.Equal(t, jobID, e.EntityID())
	assert.Contains(t, e.Reason, "corrupt")

	// The fault surfaces from Wait for the shutdown path.
	assert.ErrorIs(t, m.Wait(), boom)
	job, err := st.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, store.JobStatusFailed, job.Status)
}
