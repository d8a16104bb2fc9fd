// Package state persists switch history and per-layout usage in SQLite.
package state

import (
	"database/sql"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS layouts (
    name        TEXT PRIMARY KEY,
    open_count  INTEGER NOT NULL DEFAULT 0,
    last_opened TIMESTAMP,
    created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const (
	currentKey  = "current_session"
	previousKey = "previous_session"
)

// Store wraps the SQLite database holding switch history and usage counts.
type Store struct {
	db *sql.DB
}

// Open creates or opens the state database under cacheDir.
func Open(cacheDir string) (*Store, error) {
	dbPath := filepath.Join(cacheDir, "state.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL mode for safe concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSwitch notes that the user moved to a session: the usage counters
// bump and the session becomes current, demoting the old current session to
// previous. Switching to the already-current session only bumps usage.
func (s *Store) RecordSwitch(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO layouts (name, open_count, last_opened)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			open_count = open_count + 1,
			last_opened = CURRENT_TIMESTAMP
	`, name)
	if err != nil {
		return err
	}

	var current string
	err = tx.QueryRow("SELECT value FROM meta WHERE key = ?", currentKey).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	if current != name {
		if current != "" {
			if err := setMeta(tx, previousKey, current); err != nil {
				return err
			}
		}
		if err := setMeta(tx, currentKey, name); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func setMeta(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// LastSession returns the session the user switched away from most recently,
// or "" when there is none yet.
func (s *Store) LastSession() (string, error) {
	var name string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", previousKey).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// LayoutUsage is the recorded history of one layout.
type LayoutUsage struct {
	Name       string
	OpenCount  int
	LastOpened time.Time
}

// Usage lists every known layout, most recently opened first.
func (s *Store) Usage() ([]LayoutUsage, error) {
	rows, err := s.db.Query(`
		SELECT name, open_count, COALESCE(last_opened, created_at)
		FROM layouts
		ORDER BY COALESCE(last_opened, created_at) DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LayoutUsage
	for rows.Next() {
		var u LayoutUsage
		var lastOpened string
		if err := rows.Scan(&u.Name, &u.OpenCount, &lastOpened); err != nil {
			return nil, err
		}
		u.LastOpened, _ = time.Parse("2006-01-02 15:04:05", lastOpened)
		result = append(result, u)
	}
	return result, rows.Err()
}

// Forget drops the usage history of a removed layout.
func (s *Store) Forget(name string) error {
	_, err := s.db.Exec("DELETE FROM layouts WHERE name = ?", name)
	return err
}
