// Package store persists the calculator session to SQLite. It is a plain
// last-write-wins key-value surface keyed by session id: the session layer
// writes after every key press, and startup loads the most recent pair to
// resume where the user left off.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/evgenyvinnik/MCPlator-sub000/internal/calc"
)

// ErrNotFound is returned by Load when the session has never been saved.
var ErrNotFound = errors.New("session not found")

// SessionStore is the SQLite-backed session store.
type SessionStore struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and ensures
// the schema exists.
func Open(path string) (*SessionStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SessionStore{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculator_sessions (
		session_id TEXT PRIMARY KEY,
		state_json TEXT NOT NULL,
		display    TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// Save upserts the (state, display) pair for sessionID. Later writes win.
func (s *SessionStore) Save(ctx context.Context, sessionID string, state calc.State, display string) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculator_sessions (session_id, state_json, display, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET
			state_json = excluded.state_json,
			display    = excluded.display,
			updated_at = CURRENT_TIMESTAMP
	`, sessionID, string(blob), display)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the last saved state and display for sessionID, or ErrNotFound.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (calc.State, string, error) {
	var blob, display string
	err := s.db.QueryRowContext(ctx, `
		SELECT state_json, display FROM calculator_sessions WHERE session_id = ?
	`, sessionID).Scan(&blob, &display)
	if errors.Is(err, sql.ErrNoRows) {
		return calc.State{}, "", ErrNotFound
	}
	if err != nil {
		return calc.State{}, "", fmt.Errorf("load session: %w", err)
	}

	var state calc.State
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return calc.State{}, "", fmt.Errorf("unmarshal state: %w", err)
	}
	return state, display, nil
}

// Close releases the underlying database handle.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
