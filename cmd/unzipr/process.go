package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/vmunix/unzipr/internal/archive"
	"github.com/vmunix/unzipr/internal/config"
	"github.com/vmunix/unzipr/internal/events"
	"github.com/vmunix/unzipr/internal/jobs"
	"github.com/vmunix/unzipr/internal/migrations"
	"github.com/vmunix/unzipr/internal/processor"
	"github.com/vmunix/unzipr/internal/progress"
	"github.com/vmunix/unzipr/internal/store"
)

// ProcessResultJSON is the summary of a finished run.
type ProcessResultJSON struct {
	JobID   int64    `json:"job_id"`
	Status  string   `json:"status"`
	Renamed int      `json:"renamed"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Elapsed string   `json:"elapsed"`
	Files   []string `json:"files"`
}

var processCmd = &cobra.Command{
	Use:   "process [flags] <archive.zip>",
	Short: "Extract an archive and rename everything in it",
	Long: `Extract the archive, rename every file against the template and move
the results to the output directory. Ctrl-C cancels cleanly; files
already delivered stay delivered.

Examples:
  unzipr process season2.zip
  unzipr process --out /mnt/media --channel MyTV season2.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runProcessCmd,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().String("template", "", "Rename template override")
	processCmd.Flags().String("channel", "", "Channel tag override")
	processCmd.Flags().String("out", "", "Output directory override")
	processCmd.Flags().Int64("session", 1, "Session ID")
}

func runProcessCmd(cmd *cobra.Command, args []string) error {
	template, _ := cmd.Flags().GetString("template")
	channel, _ := cmd.Flags().GetString("channel")
	outDir, _ := cmd.Flags().GetString("out")
	sessionID, _ := cmd.Flags().GetInt64("session")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return processArchive(ctx, cfg, args[0], outDir, sessionID, template, channel)
}

// processArchive runs the whole pipeline for one archive: extract,
// rename, deliver, record. Shared by process and fetch.
func processArchive(ctx context.Context, cfg *config.Config, archivePath, outDir string, sessionID int64, template, channel string) error {
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	logger := newLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	st := store.NewStore(db)
	bus := events.NewBus(events.NewEventLog(db), logger)
	defer func() { _ = bus.Close() }()

	opts := resolveRenameOptions(st, sessionID, cfg, template, channel)

	tmpDir, err := os.MkdirTemp("", "unzipr-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	files, err := archive.Extract(ctx, archivePath, tmpDir)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	statusCh := bus.Subscribe(events.EventJobStatus, 16)
	if !jsonOutput {
		go printStatusEvents(statusCh)
	}

	proc := processor.New(processor.NewDirUploader(outDir), bus, logger)
	manager := jobs.NewManager(st, bus, logger)

	var summary *processor.JobSummary
	jobID, err := manager.Start(ctx, sessionID, archivePath, len(files),
		func(ctx context.Context, jobID int64) (*processor.JobSummary, error) {
			s, err := proc.Process(ctx, jobID, files, opts)
			summary = s
			return s, err
		})
	if err != nil {
		return fmt.Errorf("start job: %w", err)
	}
	runErr := manager.Wait()

	job, err := st.GetJob(jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if err := printProcessResult(job, summary); err != nil {
		if runErr != nil {
			return fmt.Errorf("job failed: %w", runErr)
		}
		return err
	}
	return nil
}

// resolveRenameOptions layers per-session settings over the config
// file, with command-line flags winning over both.
func resolveRenameOptions(st *store.Store, sessionID int64, cfg *config.Config, template, channel string) processor.Options {
	opts := processor.Options{
		Template:       cfg.Rename.Template,
		Channel:        cfg.Rename.Channel,
		PadWidth:       cfg.Rename.PadWidth,
		MaxNameBytes:   cfg.Rename.MaxNameBytes,
		StatusEvery:    cfg.Progress.StatusEvery,
		UpdateInterval: cfg.Progress.UpdateInterval.Std(),
	}
	if v, err := st.GetSetting(sessionID, store.KeyTemplate); err == nil {
		opts.Template = v
	}
	if v, err := st.GetSetting(sessionID, store.KeyChannel); err == nil {
		opts.Channel = v
	}
	if v, err := st.GetSetting(sessionID, store.KeyPadWidth); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.PadWidth = n
		}
	}
	if template != "" {
		opts.Template = template
	}
	if channel != "" {
		opts.Channel = channel
	}
	return opts
}

func printStatusEvents(ch <-chan events.Event) {
	for e := range ch {
		if s, ok := e.(*events.JobStatus); ok {
			fmt.Printf("processed %d/%d (renamed %d, failed %d)\n",
				s.Processed, s.Total, s.Renamed, s.Failed)
		}
	}
}

func printProcessResult(job *store.Job, summary *processor.JobSummary) error {
	result := ProcessResultJSON{
		JobID:   job.ID,
		Status:  job.Status,
		Renamed: job.Renamed,
		Failed:  job.Failed,
		Skipped: job.Skipped,
		Elapsed: progress.FormatDuration(job.Elapsed),
	}
	if summary != nil {
		for _, o := range summary.Outcomes {
			if o.Status == processor.StatusRenamed {
				result.Files = append(result.Files, o.NewName)
			}
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("\nJob %d %s: %d renamed, %d failed, %d skipped in %s\n",
		result.JobID, result.Status, result.Renamed, result.Failed, result.Skipped, result.Elapsed)
	if summary != nil {
		for _, o := range summary.Outcomes {
			switch o.Status {
			case processor.StatusRenamed:
				fmt.Printf("  %s -> %s\n", o.OriginalName, o.NewName)
			case processor.StatusFailed:
				fmt.Printf("  %s FAILED: %v\n", o.OriginalName, o.Err)
			}
		}
	}
	if result.Status == store.JobStatusFailed {
		return errors.New("job failed")
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
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
