// Package middleware provides HTTP middleware for portal sessions.
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/careers-portal/internal/logging"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// sessionIDKey is the context key for the visitor's session id.
const sessionIDKey ContextKey = "sessionID"

// TokenService issues and validates session cookie tokens.
type TokenService interface {
	Issue(sessionID string) (string, error)
	Validate(token string) (string, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

// Session resolves the visitor's session from the cookie. Visitors without a
// valid cookie get a fresh anonymous session and a new cookie.
func Session(tokens TokenService, cookie CookieConfig, log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(cookie.Name); err == nil {
				id, err := tokens.Validate(c.Value)
				if err == nil {
					next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
					return
				}
				log.Debug("discarding session cookie", "error", err)
			}

			id := uuid.NewString()
			token, err := tokens.Issue(id)
			if err != nil {
				log.Error("failed to issue session token", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     cookie.Name,
				Value:    token,
				Path:     "/",
				MaxAge:   cookie.MaxAge,
				HttpOnly: true,
				Secure:   cookie.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// WithSessionID stores the session id in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID extracts the session id from the request context.
func GetSessionID(r *http.Request) (string, error) {
	id, ok := r.Context().Value(sessionIDKey).(string)
	if !ok || id == "" {
		return "", fmt.Errorf("session ID not found in request context")
	}
	return id, nil
}
