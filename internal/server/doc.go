// Package server provides HTTP routing, middleware, and the handlers
// for the Spotify integration routes.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Session Middleware
//
// [WithSession] assigns every browser a session id cookie. The id keys
// the token cache and pending-destination entries, and is the only
// correlation across the authorize redirect round-trip
// (request, redirect, provider, callback).
//
// # Spotify Handler
//
// [SpotifyHandler] serves:
//
//	GET /spotify              → overview of mirrored profiles
//	GET /spotify/user/{id}    → profile + owned prefix-matching playlists
//	GET /spotify/callback     → authorization code exchange + redirect
//	GET /spotify/unregister   → clear tokens, redirect to provider logout
//
// Requests needing API access run through the auth orchestrator first;
// when no usable token exists the response is a redirect to the
// provider's authorization URL.
package server
