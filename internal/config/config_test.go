package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FullFile(t *testing.T) {
	tmp := t.TempDir()
	inbox := filepath.Join(tmp, "inbox")
	os.Mkdir(inbox, 0o755)

	cfgPath := filepath.Join(tmp, "config.toml")
	content := `
[server]
log_level = "debug"
inbox = "` + inbox + `"
poll_interval = "10s"

[database]
path = "/var/lib/unzipr/unzipr.db"

[rename]
template = "{ShowName} - S{Season}E{Episode}.{Extension}"
channel = "TVDrops"
pad_width = 2
max_name_bytes = 150

[progress]
update_interval = "3s"
status_every = 5

[fetch]
max_bytes = 1073741824

[output]
dir = "/media/renamed"
`
	os.WriteFile(cfgPath, []byte(content), 0644)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.Server.LogLevel)
	}
	if cfg.Server.PollInterval.Std() != 10*time.Second {
		t.Errorf("poll_interval = %v", cfg.Server.PollInterval.Std())
	}
	if cfg.Database.Path != "/var/lib/unzipr/unzipr.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Rename.Template != "{ShowName} - S{Season}E{Episode}.{Extension}" {
		t.Errorf("template = %q", cfg.Rename.Template)
	}
	if cfg.Rename.MaxNameBytes != 150 {
		t.Errorf("max_name_bytes = %d", cfg.Rename.MaxNameBytes)
	}
	if cfg.Progress.StatusEvery != 5 {
		t.Errorf("status_every = %d", cfg.Progress.StatusEvery)
	}
	if cfg.Fetch.MaxBytes != 1<<30 {
		t.Errorf("max_bytes = %d", cfg.Fetch.MaxBytes)
	}
	if cfg.Output.Dir != "/media/renamed" {
		t.Errorf("output.dir = %q", cfg.Output.Dir)
	}
}

func TestDuration_Roundtrip(t *testing.T) {
	d := Duration(90 * time.Second)
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var back Duration
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != d {
		t.Errorf("roundtrip %v != %v", back, d)
	}
}

func TestDuration_BadValue(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("not a duration")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
