// Package events carries job and session notifications between the
// pipeline and its observers: an in-process bus for live delivery and
// a SQLite log for history.
package events

import "time"

// Event is a typed notification tied to a job or session.
type Event interface {
	EventType() string
	EntityType() string // EntityJob or EntitySession
	EntityID() int64
	OccurredAt() time.Time
}

// EventMeta is the header shared by every event payload. Concrete
// events embed it and add their own fields on top.
type EventMeta struct {
	Kind   string    `json:"kind"`
	Entity string    `json:"entity"`
	Ref    int64     `json:"entity_id"`
	At     time.Time `json:"at"`
}

func (m EventMeta) EventType() string     { return m.Kind }
func (m EventMeta) EntityType() string    { return m.Entity }
func (m EventMeta) EntityID() int64       { return m.Ref }
func (m EventMeta) OccurredAt() time.Time { return m.At }

// NewMeta stamps an event header with the current time.
func NewMeta(kind, entity string, ref int64) EventMeta {
	return EventMeta{Kind: kind, Entity: entity, Ref: ref, At: time.Now()}
}
