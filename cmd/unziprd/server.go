package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/unzipr/internal/archive"
	"github.com/vmunix/unzipr/internal/config"
	"github.com/vmunix/unzipr/internal/events"
	"github.com/vmunix/unzipr/internal/jobs"
	"github.com/vmunix/unzipr/internal/migrations"
	"github.com/vmunix/unzipr/internal/processor"
	"github.com/vmunix/unzipr/internal/store"
)

// The daemon runs everything under one session; concurrent sessions
// are a CLI/bot concern.
const daemonSession int64 = 1

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type daemon struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *store.Store
	bus     *events.Bus
	manager *jobs.Manager
	proc    *processor.Processor
}

func runServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	for _, dir := range []string{cfg.Server.Inbox, cfg.Output.Dir, filepath.Dir(cfg.Database.Path)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(migrations.Schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	st := store.NewStore(db)
	bus := events.NewBus(events.NewEventLog(db), logger)
	defer func() { _ = bus.Close() }()

	d := &daemon{
		cfg:     cfg,
		log:     logger,
		store:   st,
		bus:     bus,
		manager: jobs.NewManager(st, bus, logger),
		proc: processor.New(
			processor.NewDirUploader(cfg.Output.Dir),
			bus,
			logger.With("component", "processor"),
		),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go logEvents(ctx, bus, logger.With("component", "events"))

	logger.Info("daemon starting",
		"inbox", cfg.Server.Inbox,
		"output", cfg.Output.Dir,
		"database", cfg.Database.Path,
		"poll_interval", cfg.Server.PollInterval.Std().String(),
		"log_level", cfg.Server.LogLevel,
	)

	d.watchInbox(ctx)

	logger.Info("shutting down, waiting for active jobs")
	if err := d.manager.Wait(); err != nil {
		logger.Warn("at least one job failed during this run", "error", err)
	}
	logger.Info("daemon stopped")
	return nil
}

// watchInbox polls the inbox for archives until ctx is cancelled. One
// scan pass right away, so archives waiting at startup are not delayed
// a full interval.
func (d *daemon) watchInbox(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Server.PollInterval.Std())
	defer ticker.Stop()

	d.scanInbox(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.scanInbox(ctx)
		}
	}
}

func (d *daemon) scanInbox(ctx context.Context) {
	archives, err := filepath.Glob(filepath.Join(d.cfg.Server.Inbox, "*.zip"))
	if err != nil {
		d.log.Error("scan inbox", "error", err)
		return
	}

	for _, path := range archives {
		if ctx.Err() != nil {
			return
		}
		d.processArchive(ctx, path)
	}
}

// processArchive runs one archive through the pipeline, then moves it
// out of the inbox so the next scan does not pick it up again.
func (d *daemon) processArchive(ctx context.Context, path string) {
	d.log.Info("archive found", "path", path)

	tmpDir, err := os.MkdirTemp("", "unzipr-*")
	if err != nil {
		d.log.Error("create temp dir", "error", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	files, err := archive.Extract(ctx, path, tmpDir)
	if err != nil {
		d.log.Error("extract failed", "path", path, "error", err)
		d.moveAside(path, "failed")
		return
	}

	opts := d.renameOptions()
	jobID, err := d.manager.Start(ctx, daemonSession, filepath.Base(path), len(files),
		func(ctx context.Context, jobID int64) (*processor.JobSummary, error) {
			return d.proc.Process(ctx, jobID, files, opts)
		})
	if err != nil {
		d.log.Error("start job", "path", path, "error", err)
		d.moveAside(path, "failed")
		return
	}

	// Sequential: the extracted files live in tmpDir, which must
	// outlive the job. Faults are logged by the manager; only the
	// stored status matters here.
	_ = d.manager.Wait()

	job, err := d.store.GetJob(jobID)
	if err != nil {
		d.log.Error("load job", "job_id", jobID, "error", err)
		d.moveAside(path, "processed")
		return
	}
	if job.Status == store.JobStatusFailed {
		d.moveAside(path, "failed")
		return
	}
	d.moveAside(path, "processed")
}

// renameOptions layers the session's stored settings over the config
// file, same as the CLI does.
func (d *daemon) renameOptions() processor.Options {
	opts := processor.Options{
		Template:       d.cfg.Rename.Template,
		Channel:        d.cfg.Rename.Channel,
		PadWidth:       d.cfg.Rename.PadWidth,
		MaxNameBytes:   d.cfg.Rename.MaxNameBytes,
		StatusEvery:    d.cfg.Progress.StatusEvery,
		UpdateInterval: d.cfg.Progress.UpdateInterval.Std(),
	}
	if v, err := d.store.GetSetting(daemonSession, store.KeyTemplate); err == nil {
		opts.Template = v
	} else if !errors.Is(err, store.ErrNotFound) {
		d.log.Warn("read template setting", "error", err)
	}
	if v, err := d.store.GetSetting(daemonSession, store.KeyChannel); err == nil {
		opts.Channel = v
	}
	if v, err := d.store.GetSetting(daemonSession, store.KeyPadWidth); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.PadWidth = n
		} else {
			d.log.Warn("ignoring bad pad_width setting", "value", v)
		}
	}
	return opts
}

func (d *daemon) moveAside(path, subdir string) {
	dir := filepath.Join(d.cfg.Server.Inbox, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		d.log.Error("create dir", "dir", dir, "error", err)
		return
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		d.log.Error("move archive", "path", path, "error", err)
	}
}

func logEvents(ctx context.Context, bus *events.Bus, log *slog.Logger) {
	ch := bus.SubscribeAll(64)
	for {
		select {
		case <-ctx.Done():
			bus.Unsubscribe(ch)
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			log.Debug("event", "type", e.EventType(), "entity", e.EntityType(), "entity_id", e.EntityID())
		}
	}
}
