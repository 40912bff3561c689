package content

import (
	"fmt"
	"time"

	"github.com/aterchin/lilbacon-spotify/internal/shared"
)

// UserRecord is a locally mirrored Spotify profile: the display name
// plus the ordered list of the user's playlist ids.
type UserRecord struct {
	ID          string
	Sequence    int
	SpotifyID   string
	DisplayName string
	PlaylistIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewUserRecord creates a record for the given Spotify user id. The
// display name falls back to the id when empty, matching how profiles
// render.
func NewUserRecord(spotifyID, displayName string) *UserRecord {
	if displayName == "" {
		displayName = spotifyID
	}
	now := time.Now()
	return &UserRecord{
		SpotifyID:   spotifyID,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks that the record can be persisted.
func (u *UserRecord) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: record id is empty", shared.ErrInvalidInput)
	}
	if u.SpotifyID == "" {
		return fmt.Errorf("%w: spotify id is empty", shared.ErrInvalidInput)
	}
	if u.DisplayName == "" {
		return fmt.Errorf("%w: display name is empty", shared.ErrInvalidInput)
	}
	return nil
}
