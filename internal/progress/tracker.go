// Package progress tracks byte-counted transfers and computes
// throttled speed and ETA snapshots for user-visible updates.
package progress

import (
	"errors"
	"time"
)

// DefaultUpdateInterval is the minimum time between emitted snapshots.
const DefaultUpdateInterval = 5 * time.Second

// ErrInvalidTransition is returned for an operation that is not valid
// in the tracker's current state.
var ErrInvalidTransition = errors.New("invalid tracker state transition")

// State of a tracked transfer.
type State int

const (
	StateIdle State = iota
	StateActive
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// validTransitions defines allowed state transitions. Terminal states
// have no outgoing transitions: a tracker instruments exactly one
// transfer and is discarded afterwards.
var validTransitions = map[State][]State{
	StateIdle:   {StateActive},
	StateActive: {StateCompleted, StateFailed, StateCancelled},
}

// CanTransitionTo returns true if transitioning from s to target is
// valid.
func (s State) CanTransitionTo(target State) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this state has no outgoing transitions.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Snapshot is a point-in-time view of a transfer suitable for
// rendering as a progress line.
type Snapshot struct {
	State      State
	BytesDone  int64
	BytesTotal int64
	Percent    float64
	Speed      float64 // bytes per second over the last window, 0 = unknown
	ETASeconds int     // -1 = unknown
	Elapsed    time.Duration
}

// Tracker instruments a single byte-counted operation. It is owned by
// that operation and must not be shared across transfers; a fresh
// tracker is created for each one.
type Tracker struct {
	state         State
	bytesTotal    int64
	bytesDone     int64
	startedAt     time.Time
	lastEmitAt    time.Time
	lastBytesDone int64
	interval      time.Duration

	now func() time.Time // stubbed in tests
}

// NewTracker creates an idle tracker. An interval of 0 uses
// DefaultUpdateInterval.
func NewTracker(interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	return &Tracker{interval: interval, now: time.Now}
}

// Start transitions the tracker to active. totalBytes may be an
// estimate (0 for transfers without a declared length).
func (t *Tracker) Start(totalBytes int64) error {
	if !t.state.CanTransitionTo(StateActive) {
		return ErrInvalidTransition
	}
	t.state = StateActive
	t.bytesTotal = totalBytes
	t.bytesDone = 0
	t.lastBytesDone = 0
	t.startedAt = t.now()
	t.lastEmitAt = t.startedAt
	return nil
}

// Advance records delta transferred bytes and returns the current
// snapshot. emit is true when at least the update interval has passed
// since the last emission; callers should only surface the snapshot to
// the user when emit is set, which bounds update volume regardless of
// chunk size.
func (t *Tracker) Advance(delta int64) (snap Snapshot, emit bool) {
	if t.state != StateActive {
		return t.Snapshot(), false
	}

	t.bytesDone += delta
	// Total may be an estimate for chunked transfers; never overrun it.
	if t.bytesTotal > 0 && t.bytesDone > t.bytesTotal {
		t.bytesDone = t.bytesTotal
	}

	now := t.now()
	snap = t.snapshotAt(now)
	if now.Sub(t.lastEmitAt) >= t.interval {
		t.lastEmitAt = now
		t.lastBytesDone = t.bytesDone
		emit = true
	}
	return snap, emit
}

// Snapshot returns the current view without affecting throttling.
func (t *Tracker) Snapshot() Snapshot {
	return t.snapshotAt(t.now())
}

// Finish moves the tracker to a terminal state and returns the final
// snapshot. The final snapshot is always emitted, bypassing the
// throttle, so the user sees the closing state of every transfer.
func (t *Tracker) Finish(outcome State) (Snapshot, error) {
	if !t.state.CanTransitionTo(outcome) {
		return t.Snapshot(), ErrInvalidTransition
	}
	t.state = outcome
	if outcome == StateCompleted && t.bytesTotal > 0 {
		t.bytesDone = t.bytesTotal
	}
	return t.snapshotAt(t.now()), nil
}

// State returns the tracker's current state.
func (t *Tracker) State() State {
	return t.state
}

// snapshotAt computes the snapshot for the given instant. Speed is the
// rate over the window since the last emission rather than a lifetime
// average, so stalls and bursts show up immediately. A zero-length
// window reports speed as unknown instead of dividing by zero.
func (t *Tracker) snapshotAt(now time.Time) Snapshot {
	s := Snapshot{
		State:      t.state,
		BytesDone:  t.bytesDone,
		BytesTotal: t.bytesTotal,
		ETASeconds: -1,
	}
	if !t.startedAt.IsZero() {
		s.Elapsed = now.Sub(t.startedAt)
	}

	if t.bytesTotal > 0 {
		s.Percent = float64(t.bytesDone) / float64(t.bytesTotal) * 100
	} else if t.state == StateCompleted {
		s.Percent = 100
	}

	window := now.Sub(t.lastEmitAt)
	if window > 0 && t.bytesDone > t.lastBytesDone {
		s.Speed = float64(t.bytesDone-t.lastBytesDone) / window.Seconds()
	}

	if s.Speed > 0 && t.bytesTotal > 0 {
		remaining := float64(t.bytesTotal - t.bytesDone)
		s.ETASeconds = int(remaining / s.Speed)
	}
	return s
}
