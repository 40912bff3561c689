package session

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore implements [Store] on the sessions table, surviving
// process restarts. Each mutation is a single upsert statement, so a
// refresh race between two requests of the same session resolves to
// last-writer-wins.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore with the given database connection.
// The sessions table must exist (see shared.RunMigrations).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Tokens(sessionID string) (*TokenSet, error) {
	query := `
		SELECT access_token, refresh_token, expiration
		FROM sessions
		WHERE session_id = ?
	`

	var (
		access     string
		refresh    string
		expiration sql.NullTime
	)

	err := s.db.QueryRow(query, sessionID).Scan(&access, &refresh, &expiration)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session tokens: %w", err)
	}
	if access == "" && refresh == "" {
		return nil, nil
	}

	tokens := &TokenSet{AccessToken: access, RefreshToken: refresh}
	if expiration.Valid {
		tokens.Expiration = expiration.Time
	}
	return tokens, nil
}

func (s *SQLiteStore) SetTokens(sessionID string, tokens TokenSet) error {
	query := `
		INSERT INTO sessions (session_id, access_token, refresh_token, expiration, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expiration = excluded.expiration,
			updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query, sessionID, tokens.AccessToken, tokens.RefreshToken, tokens.Expiration, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store session tokens: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ClearTokens(sessionID string) error {
	query := `
		UPDATE sessions
		SET access_token = '', refresh_token = '', expiration = NULL, updated_at = ?
		WHERE session_id = ?
	`

	if _, err := s.db.Exec(query, time.Now(), sessionID); err != nil {
		return fmt.Errorf("failed to clear session tokens: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetDestination(sessionID, destination string) error {
	return s.setField(sessionID, "destination", destination)
}

func (s *SQLiteStore) ConsumeDestination(sessionID string) (string, error) {
	return s.consumeField(sessionID, "destination")
}

func (s *SQLiteStore) SetState(sessionID, state string) error {
	return s.setField(sessionID, "state", state)
}

func (s *SQLiteStore) ConsumeState(sessionID string) (string, error) {
	return s.consumeField(sessionID, "state")
}

func (s *SQLiteStore) setField(sessionID, column, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO sessions (session_id, %s, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			%s = excluded.%s,
			updated_at = excluded.updated_at
	`, column, column, column)

	if _, err := s.db.Exec(query, sessionID, value, time.Now()); err != nil {
		return fmt.Errorf("failed to store session %s: %w", column, err)
	}
	return nil
}

// consumeField reads and clears a column in one transaction so the
// value is observed at most once even across concurrent callbacks.
func (s *SQLiteStore) consumeField(sessionID, column string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var value string
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE session_id = ?", column)
	err = tx.QueryRow(query, sessionID).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query session %s: %w", column, err)
	}

	clear := fmt.Sprintf("UPDATE sessions SET %s = '', updated_at = ? WHERE session_id = ?", column)
	if _, err := tx.Exec(clear, time.Now(), sessionID); err != nil {
		return "", fmt.Errorf("failed to clear session %s: %w", column, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return value, nil
}
