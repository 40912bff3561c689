package content

import (
	"context"
	"fmt"

	"github.com/aterchin/lilbacon-spotify/internal/shared"
	"github.com/aterchin/lilbacon-spotify/internal/spotify"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// ProfileAPI is the slice of the Spotify client the syncer consumes.
type ProfileAPI interface {
	User(ctx context.Context, userID string) (*spotify.User, error)
	UserPlaylists(ctx context.Context, userID string) (*spotify.PaginatedPlaylists, error)
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Synced  []string
	Skipped []string
	// Failed maps ids to the error that prevented their sync. A failed
	// id never aborts the rest of the batch.
	Failed map[string]error
}

// Syncer mirrors remote Spotify profiles into local user records.
type Syncer struct {
	repo    *UserRepository
	api     ProfileAPI
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewSyncer creates a Syncer. requestsPerSecond bounds outbound API
// calls; values <= 0 default to 5. logger may be nil.
func NewSyncer(repo *UserRepository, api ProfileAPI, requestsPerSecond float64, logger *log.Logger) *Syncer {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5.0
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Syncer{
		repo:    repo,
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
	}
}

// Sync upserts a record for every id in the list. Ids missing from the
// Spotify database (or not public) are skipped with a logged notice;
// other per-id failures are collected in the result. Only a storage
// enumeration failure aborts the run.
func (s *Syncer) Sync(ctx context.Context, ids []string) (*SyncResult, error) {
	result := &SyncResult{Failed: make(map[string]error)}

	for _, id := range ids {
		if err := s.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("rate limiter interrupted: %w", err)
		}

		if err := s.SyncOne(ctx, id); err != nil {
			if spotify.IsNotFound(err) {
				s.logger.Warn("user does not exist in the Spotify database or is not public", "spotify_id", id)
				result.Skipped = append(result.Skipped, id)
				continue
			}
			s.logger.Error("failed to sync user", "spotify_id", id, "error", err)
			result.Failed[id] = err
			continue
		}
		result.Synced = append(result.Synced, id)
	}

	return result, nil
}

// SyncMissing syncs only the ids that have no live record yet.
func (s *Syncer) SyncMissing(ctx context.Context, ids []string) (*SyncResult, error) {
	existing, err := s.repo.SpotifyIDs()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}

	return s.Sync(ctx, missing)
}

// SyncOne fetches the profile and playlists for one id and upserts the
// local record: display name (falling back to the id) and the ordered
// playlist id list, overwritten index-for-index.
func (s *Syncer) SyncOne(ctx context.Context, id string) error {
	profile, err := s.api.User(ctx, id)
	if err != nil {
		return err
	}

	playlistIDs, err := s.playlistIDs(ctx, id)
	if err != nil {
		return err
	}

	record, err := s.repo.GetBySpotifyID(id)
	if err != nil {
		record = NewUserRecord(profile.ID, profile.Name())
		record.PlaylistIDs = playlistIDs
		if err := s.repo.Create(record); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrRepository, err)
		}
		s.logger.Info("created user record", "spotify_id", id, "playlists", len(playlistIDs))
		return nil
	}

	record.DisplayName = profile.Name()
	record.PlaylistIDs = playlistIDs
	if err := s.repo.Update(record); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}
	s.logger.Info("updated user record", "spotify_id", id, "playlists", len(playlistIDs))
	return nil
}

func (s *Syncer) playlistIDs(ctx context.Context, userID string) ([]string, error) {
	page, err := s.api.UserPlaylists(ctx, userID)
	if err != nil {
		// A profile without readable playlists still gets mirrored.
		if spotify.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	ids := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}
