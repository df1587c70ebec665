package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

const (
	UserSearchLimit = 10
	PostSearchLimit = 20
	UserPostsLimit  = 50
)

// EventRecorder writes a domain event on the caller's transaction.
type EventRecorder interface {
	Record(ctx context.Context, tx *sql.Tx, eventType, key string, payload any) error
}

type AuthorCache interface {
	GetMany(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)
	AddMany(ctx context.Context, summaries []domain.UserSummary) error
	Set(ctx context.Context, s domain.UserSummary) error
	Delete(ctx context.Context, id string) error
}

type TrendingCache interface {
	Get(ctx context.Context) ([]domain.Hashtag, error)
	Set(ctx context.Context, tags []domain.Hashtag) error
	Invalidate(ctx context.Context) error
}

type PasswordHasher interface {
	Hash(pw string) (string, error)
	Compare(hash, pw string) error
}

type TokenIssuer interface {
	Generate(userID string) (string, error)
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
