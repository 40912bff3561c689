package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// BaseURL is the Spotify Web API root.
	BaseURL = "https://api.spotify.com/v1"

	// DefaultTimeout bounds every outbound call. A timeout is a
	// transport failure, not retried automatically.
	DefaultTimeout = 10 * time.Second
)

// APIError is returned for any non-2xx response or transport fault.
// Status is 0 when the request never produced an HTTP response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("spotify: request failed: %s", e.Message)
	}
	return fmt.Sprintf("spotify: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError for a missing remote
// entity. Callers downgrade these to an absent result.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// errorEnvelope is Spotify's error response shape.
type errorEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client performs authenticated requests against the Spotify Web API.
// A Client is bound to one access token for its lifetime; construct a
// new one after a refresh.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a Client bound to accessToken. baseURL and client
// default to [BaseURL] and a client with [DefaultTimeout] when zero.
func NewClient(accessToken, baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  client,
	}
}

// get performs an authenticated GET and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Me retrieves the profile of the user the access token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// User retrieves a public user profile by id.
func (c *Client) User(ctx context.Context, userID string) (*User, error) {
	var user User
	endpoint := fmt.Sprintf("/users/%s", url.PathEscape(userID))
	if err := c.get(ctx, endpoint, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists retrieves the public playlists of a user.
func (c *Client) UserPlaylists(ctx context.Context, userID string) (*PaginatedPlaylists, error) {
	var page PaginatedPlaylists
	endpoint := fmt.Sprintf("/users/%s/playlists?limit=50", url.PathEscape(userID))
	if err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserPlaylist retrieves a single playlist with full detail. The list
// endpoint omits descriptions, so callers re-fetch playlists one at a
// time when descriptions matter. ownerID is kept for call-site clarity;
// the playlist id alone addresses the resource.
func (c *Client) UserPlaylist(ctx context.Context, ownerID, playlistID string) (*Playlist, error) {
	var playlist Playlist
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))
	if err := c.get(ctx, endpoint, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Album retrieves an album by id.
func (c *Client) Album(ctx context.Context, albumID string) (*Album, error) {
	var album Album
	endpoint := fmt.Sprintf("/albums/%s", url.PathEscape(albumID))
	if err := c.get(ctx, endpoint, &album); err != nil {
		return nil, err
	}
	return &album, nil
}
