// internal/config/validate.go
package config

import (
	"fmt"
	"os"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var knownPlaceholders = []string{
	"{Season}", "{Episode}", "{ShowName}", "{Quality}",
	"{Audio}", "{Channel}", "{Extension}",
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if c.Server.PollInterval < 0 {
		errs = append(errs, "server.poll_interval: must be positive")
	}

	if c.Rename.PadWidth < 0 || c.Rename.PadWidth > 6 {
		errs = append(errs, fmt.Sprintf("rename.pad_width: must be between 0 and 6, got %d", c.Rename.PadWidth))
	}
	if c.Rename.MaxNameBytes != 0 && c.Rename.MaxNameBytes < 20 {
		errs = append(errs, fmt.Sprintf("rename.max_name_bytes: must be at least 20, got %d", c.Rename.MaxNameBytes))
	}
	if c.Rename.Template != "" && !hasKnownPlaceholder(c.Rename.Template) {
		errs = append(errs, fmt.Sprintf("rename.template: no recognized placeholders in %q", c.Rename.Template))
	}

	if c.Progress.UpdateInterval < 0 {
		errs = append(errs, "progress.update_interval: must be positive")
	}
	if c.Progress.StatusEvery < 0 {
		errs = append(errs, "progress.status_every: must be positive")
	}

	if c.Fetch.MaxBytes < 0 {
		errs = append(errs, "fetch.max_bytes: must be positive")
	}

	// Inbox path warning (non-fatal for the CLI, the daemon creates it)
	if c.Server.Inbox != "" && c.Server.Inbox != "./inbox" {
		if _, err := os.Stat(c.Server.Inbox); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("server.inbox: warning: directory %q does not exist", c.Server.Inbox))
		}
	}

	return errs
}

func hasKnownPlaceholder(template string) bool {
	for _, p := range knownPlaceholders {
		if strings.Contains(template, p) {
			return true
		}
	}
	return false
}
