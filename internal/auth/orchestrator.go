// Package auth decides, per inbound request, whether a cached token can
// be reused, refreshed, or a new authorization round-trip is required.
package auth

import (
	"context"
	"fmt"

	"github.com/aterchin/lilbacon-spotify/internal/session"
	"github.com/aterchin/lilbacon-spotify/internal/shared"
	"github.com/charmbracelet/log"
)

// Scopes is the fixed scope set requested on every authorization.
var Scopes = []string{
	"playlist-read-private",
	"user-read-private",
	"user-top-read",
	"playlist-modify-private",
	"playlist-modify-public",
}

const (
	// RouteOverview and RouteUnregister never become pending
	// destinations, to avoid redirect loops through the callback.
	RouteOverview   = "/spotify"
	RouteUnregister = "/spotify/unregister"

	// DefaultDestination is where the callback redirects when no
	// destination was recorded.
	DefaultDestination = "/spotify"

	// LogoutURL is Spotify's external logout page.
	LogoutURL = "https://www.spotify.com/logout"
)

// Flow is the slice of the OAuth session the orchestrator drives.
// Implemented by [session.OAuthSession].
type Flow interface {
	AuthorizeURL(state string, scopes []string) string
	Exchange(ctx context.Context, code string) (session.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (session.TokenSet, error)
}

// Decision is the outcome of consulting the token cache for a request.
type Decision int

const (
	// NeedsAuth means no usable token exists; redirect to the
	// authorization URL.
	NeedsAuth Decision = iota
	// Authorized means a valid access token is available.
	Authorized
)

// Result carries the orchestrator's decision for one request.
type Result struct {
	Decision    Decision
	AccessToken string
	// RedirectURL is the provider authorization URL when Decision is NeedsAuth.
	RedirectURL string
}

// Orchestrator implements the reuse/refresh/reauthorize policy over a
// session-scoped token store.
type Orchestrator struct {
	flow   Flow
	store  session.Store
	logger *log.Logger
}

// NewOrchestrator creates an Orchestrator. logger may be nil.
func NewOrchestrator(flow Flow, store session.Store, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Orchestrator{flow: flow, store: store, logger: logger}
}

// Authorize resolves the token state for one inbound request.
//
// A valid cached token is reused. An expired token with a refresh token
// is refreshed and persisted; either concurrent winner of a refresh
// race is safe to keep. Otherwise the request URI is recorded as the
// pending destination (unless the route is the overview or unregister
// route, which would loop through the callback) and an authorization
// redirect is issued.
func (o *Orchestrator) Authorize(ctx context.Context, sessionID, route, requestURI string) (Result, error) {
	tokens, err := o.store.Tokens(sessionID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}

	if tokens != nil && tokens.AccessToken != "" {
		if tokens.Valid() {
			return Result{Decision: Authorized, AccessToken: tokens.AccessToken}, nil
		}

		if tokens.RefreshToken != "" {
			fresh, err := o.flow.Refresh(ctx, tokens.RefreshToken)
			if err == nil {
				if err := o.store.SetTokens(sessionID, fresh); err != nil {
					return Result{}, fmt.Errorf("%w: %v", shared.ErrRepository, err)
				}
				return Result{Decision: Authorized, AccessToken: fresh.AccessToken}, nil
			}
			o.logger.Warn("token refresh rejected, falling back to reauthorization", "error", err)
		}
	}

	if route != RouteOverview && route != RouteUnregister {
		if err := o.store.SetDestination(sessionID, requestURI); err != nil {
			return Result{}, fmt.Errorf("%w: %v", shared.ErrRepository, err)
		}
	}

	state, err := shared.GenerateState()
	if err != nil {
		return Result{}, err
	}
	if err := o.store.SetState(sessionID, state); err != nil {
		return Result{}, fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}

	return Result{Decision: NeedsAuth, RedirectURL: o.flow.AuthorizeURL(state, Scopes)}, nil
}

// Callback completes the authorization round-trip: validates the state
// token when one was stored, exchanges the code, persists the token
// set, and returns the redirect target, consuming the pending
// destination exactly once. A second callback with nothing stored falls
// back to [DefaultDestination].
//
// The state check is skipped when no state was stored for the session,
// which covers codes delivered out-of-band via the request header.
func (o *Orchestrator) Callback(ctx context.Context, sessionID, code, state string) (string, error) {
	stored, err := o.store.ConsumeState(sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}
	if stored != "" && state != stored {
		return "", shared.ErrStateMismatch
	}

	tokens, err := o.flow.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	if err := o.store.SetTokens(sessionID, tokens); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}

	destination, err := o.store.ConsumeDestination(sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}
	if destination == "" {
		destination = DefaultDestination
	}

	o.logger.Info("authorization complete", "destination", destination)
	return destination, nil
}

// Unregister clears the session's tokens unconditionally. Idempotent.
func (o *Orchestrator) Unregister(sessionID string) error {
	if err := o.store.ClearTokens(sessionID); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRepository, err)
	}
	return nil
}
