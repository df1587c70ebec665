package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epicgamers652-droid/IN-APP/internal/middleware"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

type PostHandler struct {
	posts    PostService
	hashtags HashtagService
}

func NewPostHandler(posts PostService, hashtags HashtagService) *PostHandler {
	return &PostHandler{posts: posts, hashtags: hashtags}
}

// Feed GET /api/posts
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Feed(r.Context())
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch posts")
		return
	}
	transport.WriteJSON(w, http.StatusOK, posts)
}

// Create POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.posts.Create(r.Context(), middleware.UserID(r.Context()), req.Content, req.Image)
	if err != nil {
		transport.MapError(w, r, err, "Failed to create post")
		return
	}
	transport.WriteJSON(w, http.StatusOK, post)
}

// ToggleLike POST /api/posts/{id}/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	liked, err := h.posts.ToggleLike(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		transport.MapError(w, r, err, "Failed to like post")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]bool{"isLiked": liked})
}

// AddComment POST /api/posts/{id}/comments
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.posts.AddComment(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		transport.MapError(w, r, err, "Failed to add comment")
		return
	}
	transport.WriteJSON(w, http.StatusOK, c)
}

// Trending GET /api/trending
func (h *PostHandler) Trending(w http.ResponseWriter, r *http.Request) {
	tags, err := h.hashtags.Trending(r.Context())
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch trending hashtags")
		return
	}
	transport.WriteJSON(w, http.StatusOK, tags)
}
