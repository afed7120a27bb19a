package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventMeta_ImplementsEvent(t *testing.T) {
	now := time.Now()
	e := EventMeta{
		Kind:   EventJobStarted,
		Entity: EntityJob,
		Ref:    42,
		At:     now,
	}

	assert.Equal(t, EventJobStarted, e.EventType())
	assert.Equal(t, EntityJob, e.EntityType())
	assert.Equal(t, int64(42), e.EntityID())
	assert.Equal(t, now, e.OccurredAt())
}

func TestNewMeta(t *testing.T) {
	e := NewMeta(EventJobStarted, EntityJob, 123)

	assert.Equal(t, EventJobStarted, e.EventType())
	assert.Equal(t, EntityJob, e.EntityType())
	assert.Equal(t, int64(123), e.EntityID())
	assert.False(t, e.OccurredAt().IsZero())
}

func TestEventMeta_JSON(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	meta := EventMeta{Kind: EventJobCompleted, Entity: EntityJob, Ref: 42, At: at}

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "job.completed",
		"entity": "job",
		"entity_id": 42,
		"at": "2026-03-14T09:26:53Z"
	}`, string(data))

	var got EventMeta
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, meta, got)
}
