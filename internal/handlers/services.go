package handlers

import (
	"context"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/service"
)

// The handlers depend on these narrow views of the service layer.

type AuthService interface {
	Authenticate(ctx context.Context, c service.Credentials) (*service.AuthResult, error)
}

type PostService interface {
	Feed(ctx context.Context) ([]domain.FeedPost, error)
	ByUser(ctx context.Context, userID string) ([]domain.FeedPost, error)
	Create(ctx context.Context, userID, content, image string) (*domain.FeedPost, error)
	ToggleLike(ctx context.Context, userID, postID string) (bool, error)
	AddComment(ctx context.Context, userID, postID, text string) (*domain.Comment, error)
}

type UserService interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Search(ctx context.Context, query string) ([]domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) error
	ToggleFollow(ctx context.Context, userID, targetID string) (bool, error)
}

type HashtagService interface {
	Trending(ctx context.Context) ([]domain.Hashtag, error)
}

type StoryService interface {
	Active(ctx context.Context) ([]domain.StoryGroup, error)
	Create(ctx context.Context, userID, image string) (*domain.Story, error)
	View(ctx context.Context, storyID, viewerID string) error
}

type MessageService interface {
	Thread(ctx context.Context, userID, otherUserID string) ([]domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	Send(ctx context.Context, senderID, recipientID, text, image string) (*domain.Message, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
}

type SearchService interface {
	Search(ctx context.Context, query string, typ service.SearchType) (*service.SearchResult, error)
}
