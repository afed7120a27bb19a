package config

import (
	"strings"
	"testing"
)

func TestLoadError_MissingVars(t *testing.T) {
	e := &LoadError{
		Path:    "/etc/unzipr/config.toml",
		Missing: []string{"UNZIPR_CHANNEL", "UNZIPR_OUTPUT"},
	}
	got := e.Error()
	if !strings.Contains(got, "/etc/unzipr/config.toml") {
		t.Errorf("expected path in error, got %q", got)
	}
	if !strings.Contains(got, "unset environment variables") {
		t.Errorf("expected unset-variables section, got %q", got)
	}
	if !strings.Contains(got, "UNZIPR_CHANNEL") || !strings.Contains(got, "UNZIPR_OUTPUT") {
		t.Errorf("expected var names in error, got %q", got)
	}
}

func TestLoadError_Problems(t *testing.T) {
	e := &LoadError{
		Path:     "/etc/unzipr/config.toml",
		Problems: []string{"rename.pad_width: must be 0-6", "rename.max_name_bytes: must be at least 20"},
	}
	got := e.Error()
	if !strings.Contains(got, "rename.pad_width: must be 0-6") {
		t.Errorf("expected first problem in error, got %q", got)
	}
	if !strings.Contains(got, "rename.max_name_bytes") {
		t.Errorf("expected second problem in error, got %q", got)
	}
}

func TestLoadError_Both(t *testing.T) {
	e := &LoadError{
		Path:     "config.toml",
		Missing:  []string{"UNZIPR_CHANNEL"},
		Problems: []string{"rename.pad_width: must be 0-6"},
	}
	got := e.Error()
	if !strings.Contains(got, "UNZIPR_CHANNEL") {
		t.Errorf("expected missing var, got %q", got)
	}
	if !strings.Contains(got, "rename.pad_width") {
		t.Errorf("expected problem, got %q", got)
	}
	if lines := strings.Split(got, "\n"); len(lines) != 3 {
		t.Errorf("expected header plus one line per issue, got %q", got)
	}
}
