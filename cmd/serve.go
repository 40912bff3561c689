package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aterchin/lilbacon-spotify/internal/auth"
	"github.com/aterchin/lilbacon-spotify/internal/content"
	"github.com/aterchin/lilbacon-spotify/internal/server"
	"github.com/aterchin/lilbacon-spotify/internal/session"
	"github.com/aterchin/lilbacon-spotify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve wires config, database, token store, OAuth session,
// orchestrator, and handlers into an HTTP server and runs it until the
// context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	oauthSession, err := r.oauthSession()
	if err != nil {
		return err
	}

	db, err := r.database()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	store := session.NewSQLiteStore(db)
	orch := auth.NewOrchestrator(oauthSession, store, r.logger)
	repo := content.NewUserRepository(db)
	handler := server.NewSpotifyHandler(orch, nil, repo, r.config.Users.List(), r.logger)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger), server.WithSession())
	router.Handler(handler)

	httpServer := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.logger.Info("serving Spotify integration", "addr", httpServer.Addr, "callback", r.callbackURL())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
