// Package store persists per-session settings and job history in
// SQLite.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides access to unzipr's persistent state.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an already-migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
