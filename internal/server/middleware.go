package server

import (
	"context"
	"net/http"
	"time"

	"github.com/aterchin/lilbacon-spotify/internal/shared"
	"github.com/charmbracelet/log"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionCookieName carries the browser session id; the cookie is the
// only correlation between the authorize redirect and the callback.
const SessionCookieName = "lbb_session"

// SessionID returns the browser session id attached by [WithSession],
// or "" when the middleware did not run.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithSession ensures every request carries a session id: an existing
// cookie is reused, otherwise a new id is minted and set. The id is
// placed on the request context.
func WithSession() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				id = cookie.Value
			} else {
				id = shared.GenerateID()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs method, path, and duration for every request.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
