package domain

import "time"

// Event types written to the outbox. The publisher prefixes them with the
// configured topic namespace.
const (
	EventUserCreated  = "user.created"
	EventUserFollowed = "user.followed"
	EventPostCreated  = "post.created"
	EventMessageSent  = "message.sent"
	EventStoryCreated = "story.created"
)

type UserCreatedEvent struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type UserFollowedEvent struct {
	FollowerID string `json:"follower_id"`
	TargetID   string `json:"target_id"`
	Following  bool   `json:"following"`
}

type PostCreatedEvent struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Hashtags  []string  `json:"hashtags"`
	CreatedAt time.Time `json:"created_at"`
}

type StoryCreatedEvent struct {
	StoryID   string    `json:"story_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
