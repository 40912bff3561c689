package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient spins up an httptest API server and a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test_token", srv.URL, srv.Client())
}

func TestClient(t *testing.T) {
	t.Run("Me", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("expected /me, got %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test_token" {
				t.Errorf("expected bearer auth, got %s", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"alice","display_name":"Alice","followers":{"total":12}}`))
		})

		user, err := client.Me(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if user.ID != "alice" {
			t.Errorf("expected id alice, got %s", user.ID)
		}
		if user.Name() != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name())
		}
		if user.Followers.Total != 12 {
			t.Errorf("expected 12 followers, got %d", user.Followers.Total)
		}
	})

	t.Run("User", func(t *testing.T) {
		t.Run("Null Display Name", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/users/bob" {
					t.Errorf("expected /users/bob, got %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id":"bob","display_name":null}`))
			})

			user, err := client.User(context.Background(), "bob")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.Name() != "bob" {
				t.Errorf("expected fallback to id, got %s", user.Name())
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":{"status":404,"message":"User not found"}}`))
			})

			_, err := client.User(context.Background(), "ghost")
			if err == nil {
				t.Fatal("expected error for missing user")
			}
			if !IsNotFound(err) {
				t.Errorf("expected IsNotFound, got %v", err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Message != "User not found" {
				t.Errorf("expected envelope message, got %q", apiErr.Message)
			}
		})

		t.Run("Unauthorized", func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})

			_, err := client.User(context.Background(), "alice")
			if err == nil {
				t.Fatal("expected error for 401")
			}
			if IsNotFound(err) {
				t.Error("401 should not be treated as not-found")
			}
		})
	})

	t.Run("UserPlaylists", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/alice/playlists" {
				t.Errorf("expected /users/alice/playlists, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("limit"); got != "50" {
				t.Errorf("expected limit=50, got %s", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"items": [
					{"id":"p1","name":"LBB Jazz","owner":{"id":"alice"}},
					{"id":"p2","name":"Workout","owner":{"id":"alice"}}
				],
				"total": 2, "limit": 50, "offset": 0, "next": null
			}`))
		})

		page, err := client.UserPlaylists(context.Background(), "alice")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(page.Items) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(page.Items))
		}
		if page.Items[0].Name != "LBB Jazz" {
			t.Errorf("unexpected first playlist %s", page.Items[0].Name)
		}
		if page.Next != nil {
			t.Error("expected nil next page")
		}
	})

	t.Run("UserPlaylist", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/p1" {
				t.Errorf("expected /playlists/p1, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"p1","name":"LBB Jazz","description":"Late night","owner":{"id":"alice"},"tracks":{"total":40}}`))
		})

		playlist, err := client.UserPlaylist(context.Background(), "alice", "p1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Description != "Late night" {
			t.Errorf("expected description, got %q", playlist.Description)
		}
		if playlist.Tracks.Total != 40 {
			t.Errorf("expected 40 tracks, got %d", playlist.Tracks.Total)
		}
	})

	t.Run("Album", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"a1","name":"Blue","artists":[{"id":"ar1","name":"Joni"}],"release_date":"1971-06-22","total_tracks":10}`))
		})

		album, err := client.Album(context.Background(), "a1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.Name != "Blue" || album.TotalTracks != 10 {
			t.Errorf("unexpected album %+v", album)
		}
	})

	t.Run("Transport Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		client := NewClient("test_token", url, nil)
		_, err := client.Me(context.Background())
		if err == nil {
			t.Fatal("expected transport error")
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.Status != 0 {
			t.Errorf("expected status 0 for transport fault, got %d", apiErr.Status)
		}
	})
}

func TestFilterOwned(t *testing.T) {
	playlists := []SimplePlaylist{
		{ID: "p1", Name: "LBB Jazz", Owner: Owner{ID: "alice"}},
		{ID: "p2", Name: "Workout", Owner: Owner{ID: "alice"}},
		{ID: "p3", Name: "LBB Blues", Owner: Owner{ID: "mallory"}},
		{ID: "p4", Name: "LBB Soul", Owner: Owner{ID: "alice"}},
	}

	owned := FilterOwned(playlists, "alice", "LBB")
	if len(owned) != 2 {
		t.Fatalf("expected 2 playlists, got %d", len(owned))
	}
	if owned[0].ID != "p1" || owned[1].ID != "p4" {
		t.Errorf("expected order preserved, got %v", owned)
	}

	if got := FilterOwned(nil, "alice", "LBB"); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestSortByName(t *testing.T) {
	playlists := []Playlist{
		{ID: "p2", Name: "LBB Soul"},
		{ID: "p1", Name: "LBB Blues"},
		{ID: "p3", Name: "LBB Jazz"},
	}

	SortByName(playlists)

	want := []string{"LBB Blues", "LBB Jazz", "LBB Soul"}
	for i, name := range want {
		if playlists[i].Name != name {
			t.Errorf("expected %s at index %d, got %s", name, i, playlists[i].Name)
		}
	}
}
