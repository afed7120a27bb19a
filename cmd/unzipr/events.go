package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/unzipr/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}

func runEventsCmd(cmd *cobra.Command, _ []string) error {
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

	recent, err := events.NewEventLog(db).Recent(limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		type eventJSON struct {
			Type       string          `json:"type"`
			EntityType string          `json:"entity_type"`
			EntityID   int64           `json:"entity_id"`
			OccurredAt string          `json:"occurred_at"`
			Payload    json.RawMessage `json:"payload"`
		}
		out := make([]eventJSON, 0, len(recent))
		for _, e := range recent {
			out = append(out, eventJSON{
				Type:       e.Kind,
				EntityType: e.Entity,
				EntityID:   e.EntityID,
				OccurredAt: e.OccurredAt.Format(time.RFC3339),
				Payload:    json.RawMessage(e.Payload),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(recent) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("  %-20s %-20s %s\n", "TIME", "TYPE", "ENTITY")
	fmt.Println("  " + strings.Repeat("-", 55))
	for _, e := range recent {
		entity := fmt.Sprintf("%s/%d", e.Entity, e.EntityID)
		fmt.Printf("  %-20s %-20s %s\n",
			e.OccurredAt.Local().Format("2006-01-02 15:04:05"), e.Kind, entity)
	}
	return nil
}
