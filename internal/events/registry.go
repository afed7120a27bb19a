package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory returns a zero value of one event type, ready to
// unmarshal a stored payload into.
type EventFactory func() Event

// Registry turns stored events back into their concrete types.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register maps an event kind to its factory.
func (r *Registry) Register(kind string, factory EventFactory) {
	r.factories[kind] = factory
}

// Unmarshal rebuilds the typed event from a log row.
func (r *Registry) Unmarshal(stored StoredEvent) (Event, error) {
	factory, ok := r.factories[stored.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind: %s", stored.Kind)
	}

	e := factory()
	if err := json.Unmarshal([]byte(stored.Payload), e); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}
	return e, nil
}

// DefaultRegistry knows every event kind the pipeline publishes.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(EventJobStarted, func() Event { return &JobStarted{} })
	r.Register(EventJobProgressed, func() Event { return &JobProgressed{} })
	r.Register(EventJobStatus, func() Event { return &JobStatus{} })
	r.Register(EventJobCompleted, func() Event { return &JobCompleted{} })
	r.Register(EventJobFailed, func() Event { return &JobFailed{} })
	r.Register(EventJobCancelled, func() Event { return &JobCancelled{} })

	r.Register(EventFetchStarted, func() Event { return &FetchStarted{} })
	r.Register(EventFetchCompleted, func() Event { return &FetchCompleted{} })

	r.Register(EventSettingsChanged, func() Event { return &SettingsChanged{} })

	return r
}
