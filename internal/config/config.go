// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Rename   RenameConfig   `toml:"rename"`
	Progress ProgressConfig `toml:"progress"`
	Fetch    FetchConfig    `toml:"fetch"`
	Output   OutputConfig   `toml:"output"`
}

type ServerConfig struct {
	LogLevel     string   `toml:"log_level"`
	Inbox        string   `toml:"inbox"`
	PollInterval Duration `toml:"poll_interval"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type RenameConfig struct {
	Template     string `toml:"template"`
	Channel      string `toml:"channel"`
	PadWidth     int    `toml:"pad_width"`
	MaxNameBytes int    `toml:"max_name_bytes"`
}

type ProgressConfig struct {
	UpdateInterval Duration `toml:"update_interval"`
	StatusEvery    int      `toml:"status_every"`
}

type FetchConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// Duration wraps time.Duration so TOML values can use "5s" syntax.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads, substitutes, parses and validates the configuration
// file. Missing environment variables and validation failures are
// aggregated into a single LoadError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if problems := cfg.Validate(); len(missing) > 0 || len(problems) > 0 {
		return nil, &LoadError{Path: path, Missing: missing, Problems: problems}
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied, for
// running without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadWithoutValidation parses the file and applies defaults but skips
// validation and missing-variable checks. Used by tooling that edits
// half-finished configs.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, _ := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.Inbox == "" {
		c.Server.Inbox = "./inbox"
	}
	if c.Server.PollInterval == 0 {
		c.Server.PollInterval = Duration(30 * time.Second)
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/unzipr.db"
	}
	if c.Rename.PadWidth == 0 {
		c.Rename.PadWidth = 2
	}
	if c.Rename.MaxNameBytes == 0 {
		c.Rename.MaxNameBytes = 200
	}
	if c.Progress.UpdateInterval == 0 {
		c.Progress.UpdateInterval = Duration(5 * time.Second)
	}
	if c.Progress.StatusEvery == 0 {
		c.Progress.StatusEvery = 4
	}
	if c.Fetch.MaxBytes == 0 {
		c.Fetch.MaxBytes = 2 << 30
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./renamed"
	}
}

// substituteEnvVars replaces ${VAR} forms with environment values.
// Supported syntax:
//
//	${VAR}            value of VAR, reported missing when unset
//	${VAR:-default}   default when VAR is unset or empty
//	${VAR:?message}   reported missing with message when unset or empty
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1]

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return def
		}

		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			missing = append(missing, fmt.Sprintf("%s: %s", name, msg))
			return match
		}

		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		missing = append(missing, expr)
		return match
	})

	return result, missing
}
