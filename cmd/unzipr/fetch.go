package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/unzipr/internal/config"
	"github.com/vmunix/unzipr/internal/events"
	"github.com/vmunix/unzipr/internal/fetch"
	"github.com/vmunix/unzipr/internal/progress"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [flags] <url>",
	Short: "Download an archive and process it",
	Long: `Download an archive over HTTP, showing progress, then run it through
the rename pipeline. Pass --no-process to only download into the inbox
and let the daemon pick it up.

Examples:
  unzipr fetch https://example.com/season2.zip
  unzipr fetch --no-process https://example.com/season2.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runFetchCmd,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().Bool("no-process", false, "Download only, skip processing")
	fetchCmd.Flags().String("template", "", "Rename template override")
	fetchCmd.Flags().String("channel", "", "Channel tag override")
	fetchCmd.Flags().String("out", "", "Output directory override")
	fetchCmd.Flags().Int64("session", 1, "Session ID")
}

func runFetchCmd(cmd *cobra.Command, args []string) error {
	noProcess, _ := cmd.Flags().GetBool("no-process")
	template, _ := cmd.Flags().GetString("template")
	channel, _ := cmd.Flags().GetString("channel")
	outDir, _ := cmd.Flags().GetString("out")
	sessionID, _ := cmd.Flags().GetInt64("session")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	destDir := cfg.Server.Inbox
	if !noProcess {
		// Processed downloads are transient, keep them out of the inbox
		// so the daemon never races us for the file.
		tmp, err := os.MkdirTemp("", "unzipr-fetch-*")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		destDir = tmp
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path, err := downloadArchive(ctx, cfg, args[0], destDir, sessionID)
	if err != nil {
		return err
	}

	if noProcess {
		if jsonOutput {
			fmt.Printf("{\n  \"path\": %q\n}\n", path)
			return nil
		}
		fmt.Printf("saved %s\n", path)
		return nil
	}
	return processArchive(ctx, cfg, path, outDir, sessionID, template, channel)
}

// downloadArchive fetches the archive, printing progress and recording
// fetch events to the event log.
func downloadArchive(ctx context.Context, cfg *config.Config, url, destDir string, sessionID int64) (string, error) {
	logger := newLogger(cfg)

	db, err := openDatabase(cfg)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	bus := events.NewBus(events.NewEventLog(db), logger)
	defer func() { _ = bus.Close() }()

	client := fetch.NewClient(logger,
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithUpdateInterval(cfg.Progress.UpdateInterval.Std()),
	)

	_ = bus.Publish(ctx, &events.FetchStarted{
		EventMeta: events.NewMeta(events.EventFetchStarted, events.EntitySession, sessionID),
		URL:       url,
	})

	onProgress := func(s progress.Snapshot) {
		if !jsonOutput {
			fmt.Printf("\r%-40s", progress.FormatEvent(s))
		}
		_ = bus.Publish(ctx, &events.JobProgressed{
			EventMeta:  events.NewMeta(events.EventJobProgressed, events.EntitySession, sessionID),
			Stage:      events.StageDownload,
			Percent:    s.Percent,
			Speed:      s.Speed,
			ETASeconds: s.ETASeconds,
			BytesDone:  s.BytesDone,
			BytesTotal: s.BytesTotal,
		})
	}

	path, err := client.Fetch(ctx, url, destDir, onProgress)
	if !jsonOutput {
		fmt.Println()
	}
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}

	_ = bus.Publish(ctx, &events.FetchCompleted{
		EventMeta: events.NewMeta(events.EventFetchCompleted, events.EntitySession, sessionID),
		Path:      path,
	})
	return path, nil
}
