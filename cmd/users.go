package main

import (
	"context"

	"github.com/aterchin/lilbacon-spotify/internal/content"
	"github.com/aterchin/lilbacon-spotify/internal/spotify"
	"github.com/urfave/cli/v3"
)

// UsersSync mirrors the configured Spotify user ids into local records
// using an app-level (client credentials) token, since public profile
// and playlist data needs no user context.
func (r *Runner) UsersSync(ctx context.Context, cmd *cli.Command) error {
	oauthSession, err := r.oauthSession()
	if err != nil {
		return err
	}

	ids := r.config.Users.List()
	if len(ids) == 0 {
		return r.writePlainln("No user ids configured. Add them under [users] in config.toml.")
	}

	db, err := r.database()
	if err != nil {
		return err
	}
	defer db.Close()

	tokens, err := oauthSession.CredentialsToken(ctx)
	if err != nil {
		return err
	}

	client := spotify.NewClient(tokens.AccessToken, "", nil)
	repo := content.NewUserRepository(db)
	syncer := content.NewSyncer(repo, client, cmd.Float("rate"), r.logger)

	r.logger.Info("syncing user records", "count", len(ids))

	result, err := syncer.Sync(ctx, ids)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		failed := make(map[string]string, len(result.Failed))
		for id, ferr := range result.Failed {
			failed[id] = ferr.Error()
		}
		return r.writeJSON(map[string]any{
			"synced":  result.Synced,
			"skipped": result.Skipped,
			"failed":  failed,
		}, true)
	}

	r.writePlain("✓ Synced %d of %d users\n", len(result.Synced), len(ids))
	for _, id := range result.Skipped {
		r.writePlain("  skipped %s: not in the Spotify database or not public\n", id)
	}
	for id, ferr := range result.Failed {
		r.writePlain("  failed %s: %v\n", id, ferr)
	}

	return nil
}

// UsersList prints all mirrored user records.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := content.NewUserRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type recordView struct {
			SpotifyID   string   `json:"spotify_id"`
			DisplayName string   `json:"display_name"`
			PlaylistIDs []string `json:"playlist_ids"`
		}
		views := make([]recordView, 0, len(records))
		for _, rec := range records {
			views = append(views, recordView{rec.SpotifyID, rec.DisplayName, rec.PlaylistIDs})
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d user records:\n\n", len(records))
	for i, rec := range records {
		r.writePlain("%d. %s\n", i+1, rec.DisplayName)
		r.writePlain("   Spotify ID: %s\n", rec.SpotifyID)
		r.writePlain("   Playlists: %d\n\n", len(rec.PlaylistIDs))
	}

	return nil
}
