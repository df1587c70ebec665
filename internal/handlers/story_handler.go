package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epicgamers652-droid/IN-APP/internal/middleware"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

type StoryHandler struct {
	stories StoryService
}

func NewStoryHandler(stories StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// Active GET /api/stories
func (h *StoryHandler) Active(w http.ResponseWriter, r *http.Request) {
	groups, err := h.stories.Active(r.Context())
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch stories")
		return
	}
	transport.WriteJSON(w, http.StatusOK, groups)
}

// Create POST /api/stories
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	story, err := h.stories.Create(r.Context(), middleware.UserID(r.Context()), req.Image)
	if err != nil {
		transport.MapError(w, r, err, "Failed to create story")
		return
	}
	transport.WriteJSON(w, http.StatusOK, story)
}

// View POST /api/stories/{id}/view
func (h *StoryHandler) View(w http.ResponseWriter, r *http.Request) {
	if err := h.stories.View(r.Context(), chi.URLParam(r, "id"), middleware.UserID(r.Context())); err != nil {
		transport.MapError(w, r, err, "Failed to view story")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
