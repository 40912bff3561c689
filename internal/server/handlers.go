package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"

	"github.com/aterchin/lilbacon-spotify/internal/auth"
	"github.com/aterchin/lilbacon-spotify/internal/content"
	"github.com/aterchin/lilbacon-spotify/internal/shared"
	"github.com/aterchin/lilbacon-spotify/internal/spotify"
	"github.com/charmbracelet/log"
)

// PlaylistPrefix selects which playlists a user page shows: only
// playlists named with this prefix and owned by the queried user.
const PlaylistPrefix = "LBB"

const genericErrorMessage = "Something went wrong. Please contact the webmaster."

// ClientFactory builds an API client bound to an access token. Injected
// so tests can point clients at a local server.
type ClientFactory func(accessToken string) *spotify.Client

// SpotifyHandler serves the overview, user detail, OAuth callback, and
// unregister routes.
type SpotifyHandler struct {
	orch    *auth.Orchestrator
	clients ClientFactory
	repo    *content.UserRepository
	users   []string
	logger  *log.Logger
}

// NewSpotifyHandler creates the handler. users is the operator's
// configured Spotify id list; clients may be nil for the default API.
func NewSpotifyHandler(orch *auth.Orchestrator, clients ClientFactory, repo *content.UserRepository, users []string, logger *log.Logger) *SpotifyHandler {
	if clients == nil {
		clients = func(token string) *spotify.Client {
			return spotify.NewClient(token, "", nil)
		}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SpotifyHandler{
		orch:    orch,
		clients: clients,
		repo:    repo,
		users:   users,
		logger:  logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *SpotifyHandler) Routes() []string {
	return []string{"/spotify", "/spotify/"}
}

func (h *SpotifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == auth.RouteOverview || path == auth.RouteOverview+"/":
		h.overview(w, r)
	case strings.HasPrefix(path, "/spotify/user/"):
		h.userPage(w, r, strings.TrimPrefix(path, "/spotify/user/"))
	case path == "/spotify/callback":
		h.callback(w, r)
	case path == auth.RouteUnregister:
		h.unregister(w, r)
	default:
		http.NotFound(w, r)
	}
}

// profileView is the rendered shape of a profile.
type profileView struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Me          bool   `json:"me,omitempty"`
}

type playlistView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
	Permalink   string `json:"permalink"`
}

// authorize runs the orchestrator for a request and handles the
// NeedsAuth redirect. Returns an API client when the request may proceed.
func (h *SpotifyHandler) authorize(w http.ResponseWriter, r *http.Request) (*spotify.Client, bool) {
	sessionID := SessionID(r.Context())

	result, err := h.orch.Authorize(r.Context(), sessionID, r.URL.Path, r.URL.RequestURI())
	if err != nil {
		h.logger.Error("authorization policy failed", "error", err)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return nil, false
	}

	if result.Decision == auth.NeedsAuth {
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
		return nil, false
	}

	return h.clients(result.AccessToken), true
}

// overview lists the operator's profile first, then every mirrored
// profile in random order. Configured ids without a record yet are
// mirrored on the fly; a failure to fetch one profile never takes down
// the page.
func (h *SpotifyHandler) overview(w http.ResponseWriter, r *http.Request) {
	client, ok := h.authorize(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	syncer := content.NewSyncer(h.repo, client, 0, h.logger)
	if _, err := syncer.SyncMissing(ctx, h.users); err != nil {
		h.logger.Error("profile sync failed", "error", err)
	}

	me, err := client.Me(ctx)
	if err != nil {
		h.logger.Error("failed to fetch own profile", "error", err)
		http.Error(w, genericErrorMessage, http.StatusBadGateway)
		return
	}

	profiles := []profileView{{ID: me.ID, DisplayName: me.Name(), Me: true}}

	ids, err := h.repo.SpotifyIDs()
	if err != nil {
		h.logger.Error("failed to list user records", "error", err)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	var others []string
	for _, id := range ids {
		if id != me.ID {
			others = append(others, id)
		}
	}
	rand.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})

	for _, id := range others {
		profile, err := client.User(ctx, id)
		if err != nil {
			if spotify.IsNotFound(err) {
				h.logger.Warn("user does not exist in the Spotify database or is not public", "spotify_id", id)
			} else {
				h.logger.Error("failed to fetch profile", "spotify_id", id, "error", err)
			}
			continue
		}
		profiles = append(profiles, profileView{ID: profile.ID, DisplayName: profile.Name()})
	}

	h.writeJSON(w, map[string]any{"profiles": profiles})
}

// userPage shows one profile and its owned, prefix-matching playlists,
// each fetched individually for description data, sorted by name.
func (h *SpotifyHandler) userPage(w http.ResponseWriter, r *http.Request, userID string) {
	client, ok := h.authorize(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	me, err := client.Me(ctx)
	if err != nil {
		h.logger.Error("failed to fetch own profile", "error", err)
		http.Error(w, genericErrorMessage, http.StatusBadGateway)
		return
	}

	profile, err := client.User(ctx, userID)
	if err != nil {
		if spotify.IsNotFound(err) {
			h.logger.Warn("user does not exist in the Spotify database or is not public", "spotify_id", userID)
			http.Error(w, fmt.Sprintf("%s does not exist in the Spotify database or is not public.", userID), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch profile", "spotify_id", userID, "error", err)
		http.Error(w, genericErrorMessage, http.StatusBadGateway)
		return
	}

	page, err := client.UserPlaylists(ctx, userID)
	if err != nil {
		h.logger.Error("failed to fetch playlists", "spotify_id", userID, "error", err)
		http.Error(w, genericErrorMessage, http.StatusBadGateway)
		return
	}

	// The list endpoint omits descriptions, so each kept playlist is
	// fetched by itself.
	var playlists []spotify.Playlist
	for _, item := range spotify.FilterOwned(page.Items, userID, PlaylistPrefix) {
		playlist, err := client.UserPlaylist(ctx, userID, item.ID)
		if err != nil {
			h.logger.Error("failed to fetch playlist", "playlist_id", item.ID, "error", err)
			continue
		}
		playlists = append(playlists, *playlist)
	}
	spotify.SortByName(playlists)

	views := make([]playlistView, 0, len(playlists))
	for _, p := range playlists {
		views = append(views, playlistView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			OwnerID:     p.Owner.ID,
			Permalink:   fmt.Sprintf("/spotify/user/%s?playlist=%s", url.PathEscape(profile.ID), url.QueryEscape(p.ID)),
		})
	}

	h.writeJSON(w, map[string]any{
		"profiles": []profileView{{
			ID:          profile.ID,
			DisplayName: profile.Name(),
			Me:          profile.ID == me.ID,
		}},
		"playlists": views,
	})
}

// callback completes the authorization round-trip. The code arrives in
// the request header or the query string; the header takes precedence.
func (h *SpotifyHandler) callback(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionID(r.Context())

	code := r.Header.Get("code")
	if code == "" {
		code = r.URL.Query().Get("code")
	}
	code = shared.SanitizeCode(code)

	if code == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `You were not redirected from the authorization URL. Visit <a href="/spotify">/spotify</a>.`)
		return
	}

	destination, err := h.orch.Callback(r.Context(), sessionID, code, r.URL.Query().Get("state"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrStateMismatch):
			h.logger.Warn("callback state mismatch", "session_id", sessionID)
			http.Error(w, "Invalid state parameter. Visit /spotify to retry.", http.StatusBadRequest)
		case errors.Is(err, shared.ErrInvalidGrant):
			h.logger.Warn("authorization code rejected", "error", err)
			http.Error(w, "Authorization failed. Visit /spotify to retry.", http.StatusBadRequest)
		default:
			h.logger.Error("callback failed", "error", err)
			http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, destination, http.StatusFound)
}

// unregister clears the session's tokens and sends the user to
// Spotify's logout page.
func (h *SpotifyHandler) unregister(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionID(r.Context())

	if err := h.orch.Unregister(sessionID); err != nil {
		h.logger.Error("failed to clear session tokens", "error", err)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, auth.LogoutURL, http.StatusFound)
}

func (h *SpotifyHandler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
