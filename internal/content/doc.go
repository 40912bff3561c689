// Package content persists mirrored Spotify user records and keeps them
// in sync with the remote API.
//
// [UserRepository] handles CRUD for [UserRecord] rows with soft deletes
// and sequence generation, following the same repository conventions as
// the rest of the storage layer. Playlist ids attached to a record are
// overwritten index-for-index on update.
//
// [Syncer] mirrors the operator-configured id list: profiles missing
// remotely are skipped with a logged notice, and a failure for one id
// never aborts the rest of the batch. Outbound calls are rate limited.
package content
