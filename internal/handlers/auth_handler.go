package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/service"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// PublicUser is the account shape returned to the owner after sign-in. It
// repeats the id under "id" for older clients.
type PublicUser struct {
	ID             string    `json:"_id"`
	LegacyID       string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Avatar         string    `json:"avatar"`
	Bio            string    `json:"bio"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	IsPrivate      bool      `json:"isPrivate"`
	BlockedUsers   []string  `json:"blockedUsers"`
	FollowRequests []string  `json:"followRequests"`
	PostsCount     int       `json:"postsCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewPublicUser(u *domain.User) PublicUser {
	return PublicUser{
		ID:             u.ID,
		LegacyID:       u.ID,
		Email:          u.Email,
		Username:       u.Username,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		Followers:      nonNil(u.Followers),
		Following:      nonNil(u.Following),
		IsPrivate:      u.IsPrivate,
		BlockedUsers:   nonNil(u.BlockedUsers),
		FollowRequests: nonNil(u.FollowRequests),
		PostsCount:     u.PostsCount,
		CreatedAt:      u.CreatedAt,
	}
}

// Authenticate POST /api/auth
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsSignUp bool   `json:"isSignUp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.svc.Authenticate(r.Context(), service.Credentials{
		Username: req.Username,
		Password: req.Password,
		IsSignUp: req.IsSignUp,
	})
	if err != nil {
		transport.MapError(w, r, err, "Authentication failed")
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{
		"user":  NewPublicUser(res.User),
		"token": res.Token,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
