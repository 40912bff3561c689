package main

import (
	"context"
	"fmt"

	"github.com/aterchin/lilbacon-spotify/internal/shared"
	"github.com/aterchin/lilbacon-spotify/internal/spotify"
	"github.com/urfave/cli/v3"
)

// publicClient obtains an app-level token and returns a client bound to it.
func (r *Runner) publicClient(ctx context.Context) (*spotify.Client, error) {
	oauthSession, err := r.oauthSession()
	if err != nil {
		return nil, err
	}

	tokens, err := oauthSession.CredentialsToken(ctx)
	if err != nil {
		return nil, err
	}

	return spotify.NewClient(tokens.AccessToken, "", nil), nil
}

// Profile fetches a public Spotify profile by id. A missing or private
// profile prints a notice instead of failing.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.StringArg("id")
	if userID == "" {
		return fmt.Errorf("%w: user id", shared.ErrMissingArgument)
	}

	client, err := r.publicClient(ctx)
	if err != nil {
		return err
	}

	profile, err := client.User(ctx, userID)
	if err != nil {
		if spotify.IsNotFound(err) {
			r.logger.Warn("user does not exist in the Spotify database or is not public", "spotify_id", userID)
			return r.writePlain("%s does not exist in the Spotify database or is not public.\n", userID)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlain("Profile: %s\n", profile.Name())
	r.writePlain("  ID: %s\n", profile.ID)
	if profile.Followers.Total > 0 {
		r.writePlain("  Followers: %d\n", profile.Followers.Total)
	}

	return nil
}

// Album fetches album information by id.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	albumID := cmd.StringArg("id")
	if albumID == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	client, err := r.publicClient(ctx)
	if err != nil {
		return err
	}

	album, err := client.Album(ctx, albumID)
	if err != nil {
		if spotify.IsNotFound(err) {
			return r.writePlain("%s does not exist in the Spotify database.\n", albumID)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlain("Album: %s\n", album.Name)
	if len(album.Artists) > 0 {
		r.writePlain("  Artist: %s\n", album.Artists[0].Name)
	}
	r.writePlain("  Released: %s\n", album.ReleaseDate)
	r.writePlain("  Tracks: %d\n", album.TotalTracks)

	return nil
}
