package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventLog keeps a durable history of published events so job runs
// can be inspected after the fact.
type EventLog struct {
	db *sql.DB
}

// NewEventLog wraps the given database. The events table comes from
// the migrations schema.
func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{db: db}
}

// StoredEvent is one row of the log: the header columns plus the full
// payload as it was published. Use a Registry to get the typed event
// back.
type StoredEvent struct {
	ID         int64
	Kind       string
	Entity     string
	EntityID   int64
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// Append writes one event and returns its row ID.
func (l *EventLog) Append(e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	res, err := l.db.Exec(`
		INSERT INTO events (event_type, entity_type, entity_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.EventType(), e.EntityType(), e.EntityID(), string(payload), e.OccurredAt(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the latest n events, newest first.
func (l *EventLog) Recent(n int) ([]StoredEvent, error) {
	return l.query(`ORDER BY id DESC LIMIT ?`, n)
}

// Since returns events at or after t, oldest first.
func (l *EventLog) Since(t time.Time) ([]StoredEvent, error) {
	return l.query(`WHERE occurred_at >= ? ORDER BY id ASC`, t)
}

// ForEntity returns one job's or session's events, oldest first.
func (l *EventLog) ForEntity(entity string, id int64) ([]StoredEvent, error) {
	return l.query(`WHERE entity_type = ? AND entity_id = ? ORDER BY id ASC`, entity, id)
}

// Prune deletes events older than the retention window and reports
// how many were removed.
func (l *EventLog) Prune(olderThan time.Duration) (int64, error) {
	res, err := l.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return res.RowsAffected()
}

func (l *EventLog) query(clause string, args ...any) ([]StoredEvent, error) {
	rows, err := l.db.Query(`
		SELECT id, event_type, entity_type, entity_id, payload, occurred_at, created_at
		FROM events `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var e StoredEvent
		if err := rows.Scan(&e.ID, &e.Kind, &e.Entity, &e.EntityID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
