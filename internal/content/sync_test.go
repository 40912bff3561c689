package content

import (
	"context"
	"net/http"
	"testing"

	"github.com/aterchin/lilbacon-spotify/internal/spotify"
)

// fakeAPI serves canned profiles and playlists keyed by user id.
type fakeAPI struct {
	users     map[string]*spotify.User
	playlists map[string][]spotify.SimplePlaylist
	errs      map[string]error
}

func (f *fakeAPI) User(ctx context.Context, userID string) (*spotify.User, error) {
	if err, ok := f.errs[userID]; ok {
		return nil, err
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, &spotify.APIError{Status: http.StatusNotFound, Message: "User not found"}
	}
	return user, nil
}

func (f *fakeAPI) UserPlaylists(ctx context.Context, userID string) (*spotify.PaginatedPlaylists, error) {
	items, ok := f.playlists[userID]
	if !ok {
		return nil, &spotify.APIError{Status: http.StatusNotFound, Message: "Playlists not found"}
	}
	return &spotify.PaginatedPlaylists{Items: items, Total: len(items)}, nil
}

func name(s string) *string { return &s }

func TestSyncer(t *testing.T) {
	ctx := context.Background()

	t.Run("Sync", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		api := &fakeAPI{
			users: map[string]*spotify.User{
				"alice": {ID: "alice", DisplayName: name("Alice")},
				"bob":   {ID: "bob"},
			},
			playlists: map[string][]spotify.SimplePlaylist{
				"alice": {{ID: "p1", Name: "LBB Jazz"}, {ID: "p2", Name: "LBB Soul"}},
			},
			errs: map[string]error{
				"broken": &spotify.APIError{Status: http.StatusInternalServerError, Message: "oops"},
			},
		}

		syncer := NewSyncer(repo, api, 100, nil)
		result, err := syncer.Sync(ctx, []string{"alice", "ghost", "broken", "bob"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.Synced) != 2 {
			t.Errorf("expected 2 synced, got %v", result.Synced)
		}
		if len(result.Skipped) != 1 || result.Skipped[0] != "ghost" {
			t.Errorf("expected ghost skipped, got %v", result.Skipped)
		}
		if len(result.Failed) != 1 {
			t.Errorf("expected 1 failure, got %v", result.Failed)
		}
		if _, ok := result.Failed["broken"]; !ok {
			t.Error("expected broken in failed map")
		}

		// A missing or failing id never aborts the rest of the batch:
		// bob, listed after both, was still synced.
		record, err := repo.GetBySpotifyID("bob")
		if err != nil {
			t.Fatalf("expected bob record, got %v", err)
		}
		// Null display name falls back to the id.
		if record.DisplayName != "bob" {
			t.Errorf("expected display name bob, got %s", record.DisplayName)
		}
		// Playlists not readable still mirrors the profile.
		if len(record.PlaylistIDs) != 0 {
			t.Errorf("expected no playlists, got %v", record.PlaylistIDs)
		}

		alice, err := repo.GetBySpotifyID("alice")
		if err != nil {
			t.Fatalf("expected alice record, got %v", err)
		}
		if alice.DisplayName != "Alice" {
			t.Errorf("expected display name Alice, got %s", alice.DisplayName)
		}
		if len(alice.PlaylistIDs) != 2 || alice.PlaylistIDs[0] != "p1" {
			t.Errorf("unexpected playlists %v", alice.PlaylistIDs)
		}
	})

	t.Run("SyncOne Updates Existing", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		api := &fakeAPI{
			users: map[string]*spotify.User{
				"alice": {ID: "alice", DisplayName: name("Alice")},
			},
			playlists: map[string][]spotify.SimplePlaylist{
				"alice": {{ID: "p1"}},
			},
		}

		syncer := NewSyncer(repo, api, 100, nil)
		if err := syncer.SyncOne(ctx, "alice"); err != nil {
			t.Fatalf("first sync failed: %v", err)
		}

		created, err := repo.GetBySpotifyID("alice")
		if err != nil {
			t.Fatalf("expected record, got %v", err)
		}

		api.users["alice"].DisplayName = name("Alice B")
		api.playlists["alice"] = []spotify.SimplePlaylist{{ID: "p1"}, {ID: "p2"}}
		if err := syncer.SyncOne(ctx, "alice"); err != nil {
			t.Fatalf("second sync failed: %v", err)
		}

		updated, err := repo.GetBySpotifyID("alice")
		if err != nil {
			t.Fatalf("expected record, got %v", err)
		}
		if updated.ID != created.ID {
			t.Error("expected update, not a second record")
		}
		if updated.DisplayName != "Alice B" {
			t.Errorf("expected updated name, got %s", updated.DisplayName)
		}
		if len(updated.PlaylistIDs) != 2 {
			t.Errorf("expected 2 playlists, got %v", updated.PlaylistIDs)
		}
	})

	t.Run("SyncMissing", func(t *testing.T) {
		repo := NewUserRepository(setupTestDB(t))
		api := &fakeAPI{
			users: map[string]*spotify.User{
				"alice": {ID: "alice", DisplayName: name("Alice")},
				"bob":   {ID: "bob", DisplayName: name("Bob")},
			},
			playlists: map[string][]spotify.SimplePlaylist{},
		}

		if err := repo.Create(NewUserRecord("alice", "Alice")); err != nil {
			t.Fatalf("failed to seed record: %v", err)
		}

		syncer := NewSyncer(repo, api, 100, nil)
		result, err := syncer.SyncMissing(ctx, []string{"alice", "bob"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.Synced) != 1 || result.Synced[0] != "bob" {
			t.Errorf("expected only bob synced, got %v", result.Synced)
		}
	})
}
