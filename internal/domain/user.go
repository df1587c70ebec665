package domain

import (
	"fmt"
	"slices"
	"time"
)

// EmailDomain is appended to usernames to build the placeholder email of new accounts.
const EmailDomain = "in.local"

type User struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Avatar         string    `json:"avatar"`
	Bio            string    `json:"bio"`
	Website        string    `json:"website,omitempty"`
	Pronouns       string    `json:"pronouns,omitempty"`
	IsPrivate      bool      `json:"isPrivate"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	BlockedUsers   []string  `json:"blockedUsers"`
	FollowRequests []string  `json:"followRequests"`
	PostsCount     int       `json:"postsCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserSummary is the denormalized author shape embedded in posts and conversations.
type UserSummary struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// NewUser builds a freshly registered account. avatarSeed selects one of the
// placeholder avatars and is reduced modulo 100.
func NewUser(id, username, passwordHash string, avatarSeed int, now time.Time) *User {
	return &User{
		ID:             id,
		Username:       username,
		Email:          fmt.Sprintf("%s@%s", username, EmailDomain),
		PasswordHash:   passwordHash,
		Avatar:         AvatarURL(avatarSeed),
		Followers:      []string{},
		Following:      []string{},
		BlockedUsers:   []string{},
		FollowRequests: []string{},
		CreatedAt:      now.UTC(),
	}
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

func AvatarURL(seed int) string {
	if seed < 0 {
		seed = -seed
	}
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", seed%100)
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// ProfileUpdate carries the optional fields of a profile edit. Nil means "leave as is".
type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Website   *string `json:"website,omitempty"`
	Pronouns  *string `json:"pronouns,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	IsPrivate *bool   `json:"isPrivate,omitempty"`
}

func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.Bio == nil && p.Website == nil &&
		p.Pronouns == nil && p.Avatar == nil && p.IsPrivate == nil
}

// TouchesSummary reports whether the update changes fields that other
// records denormalize.
func (p ProfileUpdate) TouchesSummary() bool {
	return p.Username != nil || p.Avatar != nil
}

func (u *User) Apply(p ProfileUpdate) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Pronouns != nil {
		u.Pronouns = *p.Pronouns
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.IsPrivate != nil {
		u.IsPrivate = *p.IsPrivate
	}
}

func (u *User) IsFollowing(id string) bool {
	return slices.Contains(u.Following, id)
}

// ToggleFollow flips the follow edge from follower to target on both records
// and reports whether follower now follows target.
func ToggleFollow(follower, target *User) (bool, error) {
	if follower.ID == target.ID {
		return false, ErrSelfFollow
	}

	if follower.IsFollowing(target.ID) {
		follower.Following = remove(follower.Following, target.ID)
		target.Followers = remove(target.Followers, follower.ID)
		return false, nil
	}

	follower.Following = appendUnique(follower.Following, target.ID)
	target.Followers = appendUnique(target.Followers, follower.ID)
	return true, nil
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
