// internal/processor/reporter.go
package processor

import (
	"context"

	"github.com/vmunix/unzipr/internal/events"
)

// DefaultStatusEvery is the number of processed files between
// intermediate status events.
const DefaultStatusEvery = 4

// Reporter batches per-file outcomes into periodic status events so a
// large job produces a bounded number of updates instead of one per
// file.
type Reporter struct {
	bus   *events.Bus // may be nil
	jobID int64
	total int
	every int

	processed int
	renamed   int
	failed    int
	skipped   int
}

// NewReporter creates a reporter for a job of total files, emitting a
// status event every `every` files. An every of 0 uses
// DefaultStatusEvery.
func NewReporter(bus *events.Bus, jobID int64, total, every int) *Reporter {
	if every <= 0 {
		every = DefaultStatusEvery
	}
	return &Reporter{bus: bus, jobID: jobID, total: total, every: every}
}

// Record tallies one outcome and emits a status event after every
// full group of `every` files, plus one for a trailing partial group.
// A job of N files yields ceil(N/every) intermediate events before
// Finalize.
func (r *Reporter) Record(ctx context.Context, o FileOutcome) {
	r.processed++
	switch o.Status {
	case StatusRenamed:
		r.renamed++
	case StatusFailed:
		r.failed++
	case StatusSkipped:
		r.skipped++
	}

	if r.processed%r.every == 0 || r.processed == r.total {
		r.publish(ctx)
	}
}

// Finalize emits the closing status event with the complete tallies.
func (r *Reporter) Finalize(ctx context.Context) {
	r.publish(ctx)
}

func (r *Reporter) publish(ctx context.Context) {
	if r.bus == nil {
		return
	}
	_ = r.bus.Publish(ctx, &events.JobStatus{
		EventMeta: events.NewMeta(events.EventJobStatus, events.EntityJob, r.jobID),
		Processed: r.processed,
		Total:     r.total,
		Renamed:   r.renamed,
		Failed:    r.failed,
		Skipped:   r.skipped,
	})
}
