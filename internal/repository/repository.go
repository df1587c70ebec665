package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

// Methods taking a *sql.Tx run on the plain connection pool when tx is nil.
// Lookups of a single record return the matching domain Err*NotFound.

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, u *domain.User) error
	GetByID(ctx context.Context, tx *sql.Tx, id string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, tx *sql.Tx, username string) (*domain.User, error)
	GetSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)
	UpdateProfile(ctx context.Context, tx *sql.Tx, u *domain.User) error
	UpdateFollowLists(ctx context.Context, tx *sql.Tx, u *domain.User) error
	IncrementPostsCount(ctx context.Context, tx *sql.Tx, id string) error
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, p *domain.Post) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Post, error)
	Latest(ctx context.Context, limit int) ([]domain.Post, error)
	ByUser(ctx context.Context, userID string, limit int) ([]domain.Post, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Post, error)
	UpdateLikes(ctx context.Context, tx *sql.Tx, id string, likes []string) error
	AppendComment(ctx context.Context, tx *sql.Tx, id string, c domain.Comment) error
}

type HashtagRepository interface {
	Increment(ctx context.Context, tx *sql.Tx, name string, now time.Time) error
	Top(ctx context.Context, limit int) ([]domain.Hashtag, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Hashtag, error)
}

type StoryRepository interface {
	Create(ctx context.Context, tx *sql.Tx, s *domain.Story) error
	Active(ctx context.Context, now time.Time) ([]domain.Story, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Story, error)
	UpdateViews(ctx context.Context, tx *sql.Tx, id string, views []string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, tx *sql.Tx, m *domain.Message) error
	Between(ctx context.Context, userID, otherUserID string) ([]domain.Message, error)
	Involving(ctx context.Context, userID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, recipientID string, ids []string) (int64, error)
}
