package session

import (
	"context"
	"fmt"

	"github.com/aterchin/lilbacon-spotify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// SpotifyEndpoint is the default OAuth2 endpoint pair for Spotify.
var SpotifyEndpoint = oauth2.Endpoint{
	AuthURL:  spotifyAuthURL,
	TokenURL: spotifyTokenURL,
}

// OAuthSession encapsulates the three-legged OAuth2 flow against Spotify:
// authorize URL construction, authorization-code exchange, and token
// refresh, plus the independent client-credentials flow.
type OAuthSession struct {
	config *oauth2.Config
	creds  *clientcredentials.Config
}

// New creates an OAuthSession for the given application credentials.
// callbackURL is the absolute URL Spotify redirects to after authorization.
func New(clientID, clientSecret, callbackURL string) *OAuthSession {
	return NewWithEndpoint(clientID, clientSecret, callbackURL, SpotifyEndpoint)
}

// NewWithEndpoint creates an OAuthSession against a custom endpoint pair.
// Tests point this at a local token server.
func NewWithEndpoint(clientID, clientSecret, callbackURL string, endpoint oauth2.Endpoint) *OAuthSession {
	return &OAuthSession{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Endpoint:     endpoint,
		},
		creds: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     endpoint.TokenURL,
		},
	}
}

// AuthorizeURL builds the provider authorization URL for the requested
// scopes. Duplicate scopes are removed while preserving order. Pure URL
// construction, deterministic for given inputs.
func (s *OAuthSession) AuthorizeURL(state string, scopes []string) string {
	cfg := *s.config
	cfg.Scopes = dedupeScopes(scopes)
	return cfg.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token set. A provider
// rejection surfaces as a wrapped [shared.ErrInvalidGrant]: the user
// must restart authorization.
func (s *OAuthSession) Exchange(ctx context.Context, code string) (TokenSet, error) {
	tok, err := s.config.Exchange(ctx, code)
	if err != nil {
		return TokenSet{}, fmt.Errorf("%w: %v", shared.ErrInvalidGrant, err)
	}
	return fromOAuth2(tok, ""), nil
}

// Refresh trades a refresh token for a new access token and expiration.
// The refresh token itself is preserved. A provider rejection surfaces
// as a wrapped [shared.ErrRefreshFailed]: the caller falls back to full
// reauthorization.
func (s *OAuthSession) Refresh(ctx context.Context, refreshToken string) (TokenSet, error) {
	if refreshToken == "" {
		return TokenSet{}, shared.ErrNoRefreshToken
	}

	src := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return TokenSet{}, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return fromOAuth2(tok, refreshToken), nil
}

// CredentialsToken obtains an app-level token via the client-credentials
// flow. Used for public-data lookups; independent of the user state machine.
func (s *OAuthSession) CredentialsToken(ctx context.Context) (TokenSet, error) {
	tok, err := s.creds.Token(ctx)
	if err != nil {
		return TokenSet{}, fmt.Errorf("client credentials grant failed: %w", err)
	}
	return fromOAuth2(tok, ""), nil
}

func dedupeScopes(scopes []string) []string {
	seen := make(map[string]struct{}, len(scopes))
	var out []string
	for _, scope := range scopes {
		if _, ok := seen[scope]; ok {
			continue
		}
		seen[scope] = struct{}{}
		out = append(out, scope)
	}
	return out
}
