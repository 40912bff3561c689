package session

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenSet is the credential triple cached per browser session.
//
// Expiration is an absolute instant computed when the token is issued or
// refreshed, never a duration.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiration   time.Time `json:"expiration"`
}

// Valid reports whether the token set can authenticate an API call right now.
func (t TokenSet) Valid() bool {
	return t.ValidAt(time.Now())
}

// ValidAt reports whether the token set is valid at the given instant.
func (t TokenSet) ValidAt(now time.Time) bool {
	return t.AccessToken != "" && t.Expiration.After(now)
}

// fromOAuth2 converts an [oauth2.Token] into a TokenSet. When the
// provider response omits the refresh token (Spotify does on refresh),
// the previous one is carried forward.
func fromOAuth2(tok *oauth2.Token, previousRefresh string) TokenSet {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	return TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		Expiration:   tok.Expiry,
	}
}
