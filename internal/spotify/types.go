package spotify

import (
	"sort"
	"strings"
)

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type followers struct {
	Total int `json:"total"`
}

// User represents a Spotify user profile. DisplayName may be null for
// accounts that never set one.
type User struct {
	ID          string    `json:"id"`
	DisplayName *string   `json:"display_name"`
	Country     string    `json:"country"`
	Product     string    `json:"product"`
	Followers   followers `json:"followers"`
	Images      []Image   `json:"images"`
	URI         string    `json:"uri"`
}

// Name returns the display name, falling back to the user id when the
// profile has none.
func (u *User) Name() string {
	if u.DisplayName == nil || *u.DisplayName == "" {
		return u.ID
	}
	return *u.DisplayName
}

// Owner identifies the owning user of a playlist.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// Playlist represents a full playlist object. Spotify only attaches the
// description when the playlist is queried by itself, not in lists.
type Playlist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       Owner          `json:"owner"`
	Public      bool           `json:"public"`
	Tracks      playlistTracks `json:"tracks"`
	Images      []Image        `json:"images"`
	URI         string         `json:"uri"`
}

// SimplePlaylist represents the simplified playlist object used in lists.
type SimplePlaylist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Owner  Owner   `json:"owner"`
	Public bool    `json:"public"`
	Images []Image `json:"images"`
	URI    string  `json:"uri"`
}

// PaginatedPlaylists represents a paginated response of playlists.
type PaginatedPlaylists struct {
	Items    []SimplePlaylist `json:"items"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// FilterOwned retains only the playlists whose name starts with prefix
// and whose owner matches ownerID. Order is preserved.
func FilterOwned(playlists []SimplePlaylist, ownerID, prefix string) []SimplePlaylist {
	var out []SimplePlaylist
	for _, p := range playlists {
		if strings.HasPrefix(p.Name, prefix) && p.Owner.ID == ownerID {
			out = append(out, p)
		}
	}
	return out
}

// SortByName sorts playlists by name ascending, in place.
func SortByName(playlists []Playlist) {
	sort.Slice(playlists, func(i, j int) bool {
		return playlists[i].Name < playlists[j].Name
	})
}
