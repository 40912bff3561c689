// Package session implements the Spotify OAuth2 lifecycle and the
// session-scoped token cache.
//
// # OAuth Session
//
// [OAuthSession] wraps [oauth2.Config] for the authorization-code flow
// (authorize URL construction, code exchange, refresh) and
// [clientcredentials.Config] for the two-legged flow used on public-data
// lookups that need no user context.
//
// Spotify does not rotate refresh tokens: a refresh response usually
// omits the refresh token, so [OAuthSession.Refresh] carries the
// original one forward into the returned [TokenSet].
//
// # Token Store
//
// [Store] is the per-browser-session persistence contract for the token
// triple, the pending redirect destination, and the OAuth state token.
// Destinations and state tokens are consumed exactly once.
//
// [MemoryStore] backs tests and single-process deployments;
// [SQLiteStore] persists sessions across restarts using the shared
// database. Concurrent refreshes from one session are last-writer-wins,
// which is safe because a refresh yields an independently valid token
// set either way.
package session
