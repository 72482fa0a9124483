package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// SessionResolver is the slice of the session store the gate needs.
type SessionResolver interface {
	Resolve(token string) (int64, bool)
}

type contextKey string

const userIDKey = contextKey("userID")

// FromHeader extracts a bearer token from a raw Authorization header value.
// It accepts both "Bearer <token>" and a bare token; an empty header yields
// no token.
func FromHeader(header string) (string, bool) {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// UserID returns the authenticated user id stashed by RequireSession.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Exported for
// handler tests that bypass the middleware.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// RequireSession creates a middleware for protecting routes. It resolves
// the bearer token to a user id and rejects the request with 401 when the
// header is missing or the token is unknown. Ownership checks are not done
// here; they live in the project store and produce 403 instead.
func RequireSession(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := FromHeader(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			userID, ok := sessions.Resolve(token)
			if !ok {
				log.Debug().Str("path", r.URL.Path).Msg("Rejected request with unresolvable token")
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "auth required"})
}
