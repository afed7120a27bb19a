// Package processor renames the files of an extracted archive and
// delivers them to a destination, collecting a per-file outcome for
// each.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vmunix/unzipr/internal/archive"
	"github.com/vmunix/unzipr/internal/events"
	"github.com/vmunix/unzipr/internal/progress"
	"github.com/vmunix/unzipr/internal/renamer"
	"github.com/vmunix/unzipr/pkg/epname"
)

// Status of a single file in a batch.
const (
	StatusRenamed = "renamed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// FileOutcome records what happened to one file.
type FileOutcome struct {
	OriginalName string
	NewName      string
	Media        MediaType
	Status       string
	Err          error
}

// JobSummary aggregates a finished batch.
type JobSummary struct {
	Outcomes []FileOutcome
	Renamed  int
	Failed   int
	Skipped  int
	Elapsed  time.Duration
}

// Options configures one processing run.
type Options struct {
	Template       string        // rename template, empty = default
	Channel        string        // channel tag for the {Channel} placeholder
	PadWidth       int           // zero-pad width for numbers, 0 = default
	MaxNameBytes   int           // rendered-name length cap, 0 = default
	StatusEvery    int           // files between status events, 0 = default
	UpdateInterval time.Duration // between upload progress events, 0 = default
}

// Processor runs rename batches. One file failing never aborts the
// batch; the failure is recorded and processing continues.
type Processor struct {
	uploader Uploader
	bus      *events.Bus // may be nil
	log      *slog.Logger
}

// New creates a processor delivering files via uploader.
func New(uploader Uploader, bus *events.Bus, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{uploader: uploader, bus: bus, log: log}
}

// Process renames and uploads every file in the batch, in order, and
// returns the summary. Cancellation marks all unprocessed files as
// skipped; the summary is still returned so partial work is visible.
func (p *Processor) Process(ctx context.Context, jobID int64, files []archive.FileEntry, opts Options) (*JobSummary, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	start := time.Now()
	reporter := NewReporter(p.bus, jobID, len(files), opts.StatusEvery)
	taken := make(map[string]int, len(files))
	summary := &JobSummary{Outcomes: make([]FileOutcome, 0, len(files))}

	for i, f := range files {
		if ctx.Err() != nil {
			p.skipRemaining(ctx, files[i:], reporter, summary)
			break
		}

		outcome := p.processOne(ctx, jobID, f, opts, taken)
		summary.Outcomes = append(summary.Outcomes, outcome)
		reporter.Record(ctx, outcome)

		switch outcome.Status {
		case StatusRenamed:
			summary.Renamed++
		case StatusFailed:
			summary.Failed++
			p.log.Warn("file failed", "job_id", jobID, "file", f.Name, "error", outcome.Err)
		case StatusSkipped:
			summary.Skipped++
		}
	}

	summary.Elapsed = time.Since(start)
	reporter.Finalize(ctx)
	return summary, nil
}

func (p *Processor) processOne(ctx context.Context, jobID int64, f archive.FileEntry, opts Options, taken map[string]int) FileOutcome {
	outcome := FileOutcome{
		OriginalName: f.Name,
		Media:        MediaTypeOf(f.Name),
	}

	parsed := epname.Parse(f.Name)
	name := renamer.Render(opts.Template, renamer.Context{
		Name:         parsed,
		Channel:      opts.Channel,
		PadWidth:     opts.PadWidth,
		MaxNameBytes: opts.MaxNameBytes,
	})
	outcome.NewName = ClaimName(taken, name, opts.MaxNameBytes)

	// Each file's transfer gets its own tracker so speed and ETA
	// reflect the file in flight, not the whole batch.
	tracker := progress.NewTracker(opts.UpdateInterval)
	_ = tracker.Start(f.Size)
	report := func(delta int64) {
		if snap, emit := tracker.Advance(delta); emit {
			p.publishProgress(ctx, jobID, snap)
		}
	}

	if err := p.uploader.Upload(ctx, f.Path, outcome.NewName, report); err != nil {
		if snap, ferr := tracker.Finish(uploadState(err)); ferr == nil {
			p.publishProgress(ctx, jobID, snap)
		}
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome
	}

	if snap, err := tracker.Finish(progress.StateCompleted); err == nil {
		p.publishProgress(ctx, jobID, snap)
	}
	outcome.Status = StatusRenamed
	return outcome
}

func (p *Processor) publishProgress(ctx context.Context, jobID int64, snap progress.Snapshot) {
	if p.bus == nil {
		return
	}
	_ = p.bus.Publish(ctx, &events.JobProgressed{
		EventMeta:  events.NewMeta(events.EventJobProgressed, events.EntityJob, jobID),
		Stage:      events.StageUpload,
		Percent:    snap.Percent,
		Speed:      snap.Speed,
		ETASeconds: snap.ETASeconds,
		BytesDone:  snap.BytesDone,
		BytesTotal: snap.BytesTotal,
	})
}

func uploadState(err error) progress.State {
	if errors.Is(err, context.Canceled) {
		return progress.StateCancelled
	}
	return progress.StateFailed
}

func (p *Processor) skipRemaining(ctx context.Context, files []archive.FileEntry, reporter *Reporter, summary *JobSummary) {
	for _, f := range files {
		outcome := FileOutcome{
			OriginalName: f.Name,
			Media:        MediaTypeOf(f.Name),
			Status:       StatusSkipped,
			Err:          ctx.Err(),
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.Skipped++
		reporter.Record(ctx, outcome)
	}
}

// ClaimName resolves rendered-name collisions within a batch. The
// first file keeps the name; later files get a numeric suffix before
// the extension, with the stem re-trimmed so the suffixed name still
// fits maxBytes (0 = renamer default). Suffixed names are claimed too,
// so a file that renders directly to "x (2).mkv" can never collide
// with a generated suffix.
func ClaimName(taken map[string]int, name string, maxBytes int) string {
	if taken[name] == 0 {
		taken[name] = 1
		return name
	}
	if maxBytes <= 0 {
		maxBytes = renamer.DefaultMaxNameBytes
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := taken[name] + 1; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate := fitStem(stem, maxBytes-len(suffix)-len(ext)) + suffix + ext
		if taken[candidate] == 0 {
			taken[name] = i
			taken[candidate] = 1
			return candidate
		}
	}
}

// fitStem trims stem to at most max bytes, cutting on a rune boundary
// and dropping trailing spaces and dots the cut leaves behind.
func fitStem(stem string, max int) string {
	if max <= 0 || len(stem) <= max {
		return stem
	}
	for max > 0 && !utf8.RuneStart(stem[max]) {
		max--
	}
	return strings.TrimRight(stem[:max], " .")
}
