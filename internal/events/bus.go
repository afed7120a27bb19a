package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus fans events out to subscribers and, when an EventLog is
// attached, records them for later replay. Delivery never blocks a
// publisher: a subscriber that falls behind loses events rather than
// stalling a running job.
type Bus struct {
	log    *EventLog // nil disables persistence
	logger *slog.Logger

	mu     sync.RWMutex
	byKind map[string][]chan Event
	all    []chan Event
	closed bool
}

// NewBus creates a bus. Pass a nil EventLog to keep events in-memory
// only.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		log:    log,
		logger: logger,
		byKind: make(map[string][]chan Event),
	}
}

// Publish records the event and delivers it to every matching
// subscriber. A full subscriber channel drops the event with a
// warning; a persistence failure is logged but does not stop
// delivery.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	targets := make([]chan Event, 0, len(b.byKind[e.EventType()])+len(b.all))
	targets = append(targets, b.byKind[e.EventType()]...)
	targets = append(targets, b.all...)
	b.mu.RUnlock()

	if b.log != nil {
		if _, err := b.log.Append(e); err != nil {
			b.logger.Error("event not persisted", "kind", e.EventType(), "error", err)
		}
	}

	for _, ch := range targets {
		select {
		case ch <- e:
		default:
			b.logger.Warn("subscriber full, event dropped",
				"kind", e.EventType(), "entity", e.EntityType(), "entity_id", e.EntityID())
		}
	}
	return nil
}

// Subscribe returns a channel receiving events of one kind.
func (b *Bus) Subscribe(kind string, buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	b.byKind[kind] = append(b.byKind[kind], ch)
	return ch
}

// SubscribeAll returns a channel receiving every event.
func (b *Bus) SubscribeAll(buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	b.all = append(b.all, ch)
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe or
// SubscribeAll.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for kind, subs := range b.byKind {
		if i := indexOf(subs, ch); i >= 0 {
			b.byKind[kind] = append(subs[:i], subs[i+1:]...)
			close(subs[i])
			return
		}
	}
	if i := indexOf(b.all, ch); i >= 0 {
		closing := b.all[i]
		b.all = append(b.all[:i], b.all[i+1:]...)
		close(closing)
	}
}

// Close shuts the bus down and closes every subscriber channel.
// Publish becomes a no-op afterwards.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.byKind {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.byKind = nil
	for _, ch := range b.all {
		close(ch)
	}
	b.all = nil
	return nil
}

func indexOf(subs []chan Event, ch <-chan Event) int {
	for i, sub := range subs {
		if sub == ch {
			return i
		}
	}
	return -1
}
