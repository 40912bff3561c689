package content

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aterchin/lilbacon-spotify/internal/shared"
)

// UserRepository persists [UserRecord] rows in the spotify_users table
// with soft delete support.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the given database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// NextSequence atomically increments and returns the next sequence
// number for the spotify_users table. Sequences give records a stable
// human-readable ordering.
func NextSequence(db *sql.DB) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE spotify_users_sequence SET value = value + 1 WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow("SELECT value FROM spotify_users_sequence WHERE id = 1").Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// Create inserts a new record with generated ID and sequence, then
// writes its playlist ids.
func (r *UserRepository) Create(record *UserRecord) error {
	sequence, err := NextSequence(r.db)
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.ID = shared.GenerateID()
	record.Sequence = sequence

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO spotify_users (id, sequence, spotify_id, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID,
		record.Sequence,
		record.SpotifyID,
		record.DisplayName,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user record: %w", err)
	}

	return r.writePlaylists(record.ID, record.PlaylistIDs)
}

// Get retrieves a record by ID, excluding soft-deleted records.
func (r *UserRepository) Get(id string) (*UserRecord, error) {
	query := `
		SELECT id, sequence, spotify_id, display_name, created_at, updated_at, deleted_at
		FROM spotify_users
		WHERE id = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySpotifyID retrieves a record by its Spotify user id.
func (r *UserRepository) GetBySpotifyID(spotifyID string) (*UserRecord, error) {
	query := `
		SELECT id, sequence, spotify_id, display_name, created_at, updated_at, deleted_at
		FROM spotify_users
		WHERE spotify_id = ? AND deleted_at IS NULL
	`
	return r.scanOne(r.db.QueryRow(query, spotifyID))
}

// Update modifies the display name and overwrites the playlist ids
// index-for-index.
func (r *UserRepository) Update(record *UserRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.UpdatedAt = now

	query := `
		UPDATE spotify_users
		SET display_name = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, record.DisplayName, now, record.ID)
	if err != nil {
		return fmt.Errorf("failed to update user record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user record %s", shared.ErrNotFound, record.ID)
	}

	return r.writePlaylists(record.ID, record.PlaylistIDs)
}

// Delete soft-deletes a record by ID.
func (r *UserRepository) Delete(id string) error {
	query := `
		UPDATE spotify_users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user record %s", shared.ErrNotFound, id)
	}

	return nil
}

// List retrieves all live records ordered by sequence.
func (r *UserRepository) List() ([]*UserRecord, error) {
	query := `
		SELECT id, sequence, spotify_id, display_name, created_at, updated_at, deleted_at
		FROM spotify_users
		WHERE deleted_at IS NULL
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query user records: %w", err)
	}
	defer rows.Close()

	var records []*UserRecord
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// SpotifyIDs returns the Spotify user ids of all live records.
func (r *UserRepository) SpotifyIDs() ([]string, error) {
	rows, err := r.db.Query("SELECT spotify_id FROM spotify_users WHERE deleted_at IS NULL ORDER BY sequence ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query spotify ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan spotify id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanOne(row *sql.Row) (*UserRecord, error) {
	record, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user record", shared.ErrNotFound)
	}
	return record, err
}

func (r *UserRepository) scan(row scannable) (*UserRecord, error) {
	var (
		record    UserRecord
		deletedAt sql.NullTime
	)

	err := row.Scan(&record.ID, &record.Sequence, &record.SpotifyID, &record.DisplayName,
		&record.CreatedAt, &record.UpdatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user record: %w", err)
	}
	if deletedAt.Valid {
		record.DeletedAt = &deletedAt.Time
	}

	if record.PlaylistIDs, err = r.playlists(record.ID); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *UserRepository) playlists(recordID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT playlist_id FROM spotify_user_playlists WHERE user_id = ? ORDER BY position ASC",
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan playlist id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// writePlaylists overwrites positions 0..len(ids)-1. Positions beyond
// the new list are left as they were, matching the field semantics the
// record mirrors.
func (r *UserRepository) writePlaylists(recordID string, ids []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO spotify_user_playlists (user_id, position, playlist_id)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, position) DO UPDATE SET playlist_id = excluded.playlist_id
	`

	for i, id := range ids {
		if _, err := tx.Exec(query, recordID, i, id); err != nil {
			return fmt.Errorf("failed to write playlist id at position %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist ids: %w", err)
	}
	return nil
}
