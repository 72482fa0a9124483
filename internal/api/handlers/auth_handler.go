package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dmarrero/promptdeck-be/internal/auth"
	"github.com/dmarrero/promptdeck-be/internal/services"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions services.SessionServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Register(payload.Email, payload.Password, payload.Name)
	if err != nil {
		if !errors.Is(err, services.ErrDuplicateEmail) && !errors.Is(err, services.ErrInvalidInput) {
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"userId": user.ID,
		"email":  user.Email,
	})
}

// Login authenticates a user and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "email and password required")
		return
	}

	userID, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		writeServiceError(w, err)
		return
	}

	token := h.sessions.Issue(userID)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"userId": userID,
	})
}

// Logout revokes the presented session token. It succeeds regardless of
// whether the token was live, so retries are harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.FromHeader(r.Header.Get("Authorization")); ok {
		h.sessions.Revoke(token)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
