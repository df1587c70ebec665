package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/middleware"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

type UserHandler struct {
	users UserService
	posts PostService
}

func NewUserHandler(users UserService, posts PostService) *UserHandler {
	return &UserHandler{users: users, posts: posts}
}

// List GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Search(r.Context(), "")
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch users")
		return
	}
	transport.WriteJSON(w, http.StatusOK, users)
}

// GetByUsername GET /api/users/{user}
func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByUsername(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch user")
		return
	}
	transport.WriteJSON(w, http.StatusOK, u)
}

// Posts GET /api/users/{user}/posts
func (h *UserHandler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ByUser(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch posts")
		return
	}
	transport.WriteJSON(w, http.StatusOK, posts)
}

// UpdateProfile PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.users.UpdateProfile(r.Context(), middleware.UserID(r.Context()), upd); err != nil {
		transport.MapError(w, r, err, "Failed to update profile")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ToggleFollow POST /api/users/{user}/follow
func (h *UserHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	following, err := h.users.ToggleFollow(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "user"))
	if err != nil {
		transport.MapError(w, r, err, "Failed to follow user")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]bool{"following": following})
}
