// Package spotify is a thin typed client for the Spotify Web API,
// bound to a single access token for its lifetime.
//
// Response types follow https://developer.spotify.com/documentation/web-api/reference/
//
// Every operation attaches bearer auth, enforces a bounded request
// deadline, and decodes JSON. Non-2xx responses and transport faults
// surface as [*APIError]; a 404 is distinguishable via [IsNotFound] so
// callers can downgrade missing remote entities to an absent result
// instead of propagating a failure.
package spotify
