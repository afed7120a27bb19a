// internal/store/settings.go
package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Setting keys a session can override.
const (
	KeyTemplate = "template"
	KeyChannel  = "channel"
	KeyPadWidth = "pad_width"
)

// SetSetting stores or replaces one setting for a session.
func (s *Store) SetSetting(sessionID int64, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (session_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		sessionID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns one setting's value, or ErrNotFound.
func (s *Store) GetSetting(sessionID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM settings WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// Settings returns all settings for a session.
func (s *Store) Settings(sessionID int64) (map[string]string, error) {
	rows, err := s.db.Query(`
		SELECT key, value FROM settings WHERE session_id = ?`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// DeleteSetting removes one setting, reverting the session to the
// global default. Deleting an absent key is not an error.
func (s *Store) DeleteSetting(sessionID int64, key string) error {
	_, err := s.db.Exec(`
		DELETE FROM settings WHERE session_id = ? AND key = ?`,
		sessionID, key,
	)
	if err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}
