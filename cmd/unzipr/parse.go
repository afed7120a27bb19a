package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/unzipr/internal/renamer"
	"github.com/vmunix/unzipr/pkg/epname"
)

// ParseResultJSON is the JSON-friendly representation of a parsed
// filename plus its rendered name.
type ParseResultJSON struct {
	Filename string `json:"filename"`
	Season   int    `json:"season,omitempty"`
	Episode  int    `json:"episode,omitempty"`
	ShowName string `json:"show_name,omitempty"`
	Quality  string `json:"quality,omitempty"`
	Audio    string `json:"audio,omitempty"`
	NewName  string `json:"new_name"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <filename>",
	Short: "Parse an episode filename (local, no archive needed)",
	Long: `Parse a filename to extract episode metadata and show the name it
would be renamed to.

Examples:
  unzipr parse "Show.Name.S02E05.1080p.AAC.mkv"
  unzipr parse --template "{ShowName} E{Episode}.{Extension}" "ep 7.mkv"
  unzipr parse --file names.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().String("template", "", "Rename template override")
	parseCmd.Flags().String("channel", "", "Channel tag override")
	parseCmd.Flags().StringP("file", "f", "", "Read filenames from file (one per line)")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	template, _ := cmd.Flags().GetString("template")
	channel, _ := cmd.Flags().GetString("channel")
	inputFile, _ := cmd.Flags().GetString("file")

	var names []string
	switch {
	case inputFile != "":
		read, err := readNamesFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = read
	case len(args) > 0:
		names = []string{args[0]}
	default:
		return fmt.Errorf("usage: unzipr parse <filename> or unzipr parse --file <filename>")
	}

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

	results := make([]ParseResultJSON, 0, len(names))
	for _, name := range names {
		parsed := epname.Parse(name)
		results = append(results, ParseResultJSON{
			Filename: name,
			Season:   parsed.Season,
			Episode:  parsed.Episode,
			ShowName: parsed.ShowName,
			Quality:  parsed.Quality,
			Audio:    parsed.Audio,
			NewName: renamer.Render(template, renamer.Context{
				Name:         parsed,
				Channel:      channel,
				PadWidth:     cfg.Rename.PadWidth,
				MaxNameBytes: cfg.Rename.MaxNameBytes,
			}),
		})
	}

	if jsonOutput {
		return outputJSON(results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Println()
		}
		printParseHuman(r)
	}
	return nil
}

func printParseHuman(r ParseResultJSON) {
	fmt.Printf("File:      %s\n", r.Filename)
	if r.Episode > 0 {
		fmt.Printf("Season:    %d\n", r.Season)
		fmt.Printf("Episode:   %d\n", r.Episode)
	} else {
		fmt.Println("Episode:   (not detected)")
	}
	if r.ShowName != "" {
		fmt.Printf("Show:      %s\n", r.ShowName)
	}
	if r.Quality != "" {
		fmt.Printf("Quality:   %s\n", r.Quality)
	}
	if r.Audio != "" {
		fmt.Printf("Audio:     %s\n", r.Audio)
	}
	fmt.Printf("New name:  %s\n", r.NewName)
}

// readNamesFile reads filenames from a file, one per line.
func readNamesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

func outputJSON(results []ParseResultJSON) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
