package events

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/unzipr/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(migrations.Schema)
	require.NoError(t, err)
	return db
}

func TestEventLog_Append(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	id, err := log.Append(&JobStarted{
		EventMeta: NewMeta(EventJobStarted, EntityJob, 1),
		SessionID: 7,
		Source:    "season2.zip",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	stored, err := log.ForEntity(EntityJob, 1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, EventJobStarted, stored[0].Kind)
	assert.Equal(t, EntityJob, stored[0].Entity)
	assert.Equal(t, int64(1), stored[0].EntityID)
	assert.Contains(t, stored[0].Payload, `"source":"season2.zip"`)
}

func TestEventLog_Since(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	start := time.Now().Add(-time.Hour)

	_, err := log.Append(&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, 1)})
	require.NoError(t, err)
	_, err = log.Append(&JobCompleted{EventMeta: NewMeta(EventJobCompleted, EntityJob, 1), Renamed: 3})
	require.NoError(t, err)

	stored, err := log.Since(start)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// Oldest first.
	assert.Equal(t, EventJobStarted, stored[0].Kind)
	assert.Equal(t, EventJobCompleted, stored[1].Kind)
}

func TestEventLog_ForEntity(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	_, err := log.Append(&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, 1)})
	require.NoError(t, err)
	_, err = log.Append(&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, 2)})
	require.NoError(t, err)
	_, err = log.Append(&JobCompleted{EventMeta: NewMeta(EventJobCompleted, EntityJob, 1)})
	require.NoError(t, err)

	stored, err := log.ForEntity(EntityJob, 1)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, EventJobStarted, stored[0].Kind)
	assert.Equal(t, EventJobCompleted, stored[1].Kind)

	other, err := log.ForEntity(EntityJob, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestEventLog_Prune(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	// Backdate one event past the retention window.
	_, err := db.Exec(`
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		EventJobCompleted, EntityJob, 1, `{"renamed":1}`, time.Now().Add(-100*24*time.Hour),
	)
	require.NoError(t, err)

	_, err = log.Append(&JobStarted{EventMeta: NewMeta(EventJobStarted, EntityJob, 2)})
	require.NoError(t, err)

	count, err := log.Prune(90 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := log.Since(time.Time{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, EventJobStarted, stored[0].Kind)
}

func TestEventLog_Recent(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	for i := 0; i < 5; i++ {
		_, err := log.Append(&JobStarted{
			EventMeta: NewMeta(EventJobStarted, EntityJob, int64(i+1)),
			SessionID: 7,
			Source:    fmt.Sprintf("season%d.zip", i+1),
		})
		require.NoError(t, err)
	}

	stored, err := log.Recent(3)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	// Newest first.
	assert.Equal(t, int64(5), stored[0].EntityID)
	assert.Equal(t, int64(4), stored[1].EntityID)
	assert.Equal(t, int64(3), stored[2].EntityID)
}
