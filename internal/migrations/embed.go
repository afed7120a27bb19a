// Package migrations embeds the SQLite schema the binaries apply at
// startup.
package migrations

import (
	_ "embed"
)

// Schema creates the settings, jobs, and events tables. It is
// idempotent; every statement uses IF NOT EXISTS.
//
//go:embed sql/001_initial.sql
var Schema string
