package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/unzipr/internal/progress"
	"github.com/vmunix/unzipr/internal/store"
)

// JobJSON is a job-history row.
type JobJSON struct {
	ID        int64  `json:"id"`
	SessionID int64  `json:"session_id"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	Total     int    `json:"total_files"`
	Renamed   int    `json:"renamed"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	Elapsed   string `json:"elapsed"`
	StartedAt string `json:"started_at"`
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Show job history for a session",
	Args:  cobra.NoArgs,
	RunE:  runJobsCmd,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.Flags().Int64("session", 1, "Session ID")
	jobsCmd.Flags().IntP("limit", "n", 20, "Number of jobs to show")
}

func runJobsCmd(cmd *cobra.Command, _ []string) error {
	sessionID, _ := cmd.Flags().GetInt64("session")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	jobs, err := store.NewStore(db).ListJobs(sessionID, limit)
	if err != nil {
		return err
	}

	out := make([]JobJSON, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobJSON{
			ID:        j.ID,
			SessionID: j.SessionID,
			Source:    j.Source,
			Status:    j.Status,
			Total:     j.TotalFiles,
			Renamed:   j.Renamed,
			Failed:    j.Failed,
			Skipped:   j.Skipped,
			Elapsed:   progress.FormatDuration(j.Elapsed),
			StartedAt: j.StartedAt.Format(time.RFC3339),
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out) == 0 {
		fmt.Println("No jobs")
		return nil
	}
	fmt.Printf("  %-5s %-10s %-30s %-9s %s\n", "ID", "STATUS", "SOURCE", "RENAMED", "ELAPSED")
	for _, j := range out {
		fmt.Printf("  %-5d %-10s %-30s %3d/%-5d %s\n",
			j.ID, j.Status, truncate(j.Source, 30), j.Renamed, j.Total, j.Elapsed)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}
