package config

import (
	"strings"
)

// LoadError collects everything wrong with a config file in one pass,
// so a bad file is fixed with one round of edits instead of one
// restart per mistake.
type LoadError struct {
	Path     string
	Missing  []string // ${VAR} references with no value and no default
	Problems []string // field validation failures
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("invalid config " + e.Path)
	if len(e.Missing) > 0 {
		b.WriteString("\n  unset environment variables: " + strings.Join(e.Missing, ", "))
	}
	for _, p := range e.Problems {
		b.WriteString("\n  " + p)
	}
	return b.String()
}
