package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/unzipr/internal/archive"
	"github.com/vmunix/unzipr/internal/processor"
	"github.com/vmunix/unzipr/internal/renamer"
	"github.com/vmunix/unzipr/pkg/epname"
)

// PreviewEntryJSON is one archive entry with its proposed new name.
type PreviewEntryJSON struct {
	Original string `json:"original"`
	NewName  string `json:"new_name"`
	Media    string `json:"media"`
	Size     int64  `json:"size"`
}

var previewCmd = &cobra.Command{
	Use:   "preview [flags] <archive.zip>",
	Short: "Show what an archive's files would be renamed to",
	Long: `List an archive's entries next to the names they would get, without
extracting or writing anything.

Examples:
  unzipr preview season2.zip
  unzipr preview --template "{ShowName} E{Episode}.{Extension}" season2.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runPreviewCmd,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("template", "", "Rename template override")
	previewCmd.Flags().String("channel", "", "Channel tag override")
}

func runPreviewCmd(cmd *cobra.Command, args []string) error {
	template, _ := cmd.Flags().GetString("template")
	channel, _ := cmd.Flags().GetString("channel")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if template == "" {
		template = cfg.Rename.Template
	}
	if channel == "" {
		channel = cfg.Rename.Channel
	}

	entries, err := archive.Preview(args[0])
	if err != nil {
		return err
	}

	var grouper epname.Grouper
	taken := make(map[string]int, len(entries))
	out := make([]PreviewEntryJSON, 0, len(entries))
	for _, e := range entries {
		parsed := epname.Parse(e.Name)
		parsed.ShowName = grouper.Assign(parsed.ShowName)
		name := renamer.Render(template, renamer.Context{
			Name:         parsed,
			Channel:      channel,
			PadWidth:     cfg.Rename.PadWidth,
			MaxNameBytes: cfg.Rename.MaxNameBytes,
		})
		name = processor.ClaimName(taken, name, cfg.Rename.MaxNameBytes)
		out = append(out, PreviewEntryJSON{
			Original: e.Name,
			NewName:  name,
			Media:    string(processor.MediaTypeOf(e.Name)),
			Size:     e.Size,
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, e := range out {
		fmt.Printf("%-10s %s\n        -> %s\n", "["+e.Media+"]", e.Original, e.NewName)
	}
	fmt.Printf("\n%d files\n", len(out))
	return nil
}
