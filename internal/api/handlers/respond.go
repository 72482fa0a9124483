package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmarrero/promptdeck-be/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps store errors onto HTTP statuses. The sentinel set
// is closed, so anything unmatched is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		writeJSONError(w, http.StatusConflict, "email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "not owner")
	case errors.Is(err, services.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "project not found")
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
