package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/dmarrero/promptdeck-be/internal/auth"
	"github.com/dmarrero/promptdeck-be/internal/services"
)

// ProjectHandler handles HTTP requests for project management.
type ProjectHandler struct {
	service services.ProjectServiceProvider
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service services.ProjectServiceProvider) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// CreateProjectPayload defines the structure for project creation requests.
type CreateProjectPayload struct {
	Name string `json:"name"`
}

// AddPromptPayload defines the structure for prompt append requests.
type AddPromptPayload struct {
	Prompt string `json:"prompt"`
}

// List returns the authenticated user's projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "auth required")
		return
	}
	writeJSON(w, http.StatusOK, h.service.ListByOwner(userID))
}

// Create handles the request to create a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "auth required")
		return
	}

	var payload CreateProjectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.service.Create(userID, payload.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// AddPrompt appends a prompt to one of the user's projects.
func (h *ProjectHandler) AddPrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "auth required")
		return
	}

	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "project not found")
		return
	}

	var payload AddPromptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompts, err := h.service.AddPrompt(projectID, userID, payload.Prompt)
	if err != nil {
		log.Warn().Err(err).Int64("project_id", projectID).Int64("user_id", userID).Msg("Failed to add prompt")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"prompts": prompts,
	})
}
