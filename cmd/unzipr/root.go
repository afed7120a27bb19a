package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/unzipr/internal/config"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "unzipr",
	Short: "Rename TV episodes straight out of ZIP archives",
	Long: `unzipr - batch episode renamer for ZIP archives

Extracts archives, parses episode metadata out of each filename and
renames everything against a configurable template.

Run 'unziprd' to start the inbox-watching daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("unzipr {{.Version}}\n")
}

// loadConfig loads the configured or discovered config file, falling
// back to built-in defaults when none exists. Commands that only parse
// names must work without any setup.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	path, err := config.Discover()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}
