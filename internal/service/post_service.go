package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/repository"
	"github.com/epicgamers652-droid/IN-APP/internal/tx"
)

type PostService struct {
	posts     repository.PostRepository
	users     repository.UserRepository
	hashtags  repository.HashtagRepository
	tx        tx.Transactor
	events    EventRecorder
	directory *Directory
	trending  TrendingCache

	now clock
}

func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	hashtags repository.HashtagRepository,
	transactor tx.Transactor,
	events EventRecorder,
	directory *Directory,
	trending TrendingCache,
) *PostService {
	return &PostService{
		posts:     posts,
		users:     users,
		hashtags:  hashtags,
		tx:        transactor,
		events:    events,
		directory: directory,
		trending:  trending,
	}
}

// Feed returns the latest posts joined with their current authors.
func (s *PostService) Feed(ctx context.Context) ([]domain.FeedPost, error) {
	posts, err := s.posts.Latest(ctx, domain.FeedLimit)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return s.join(ctx, posts)
}

func (s *PostService) ByUser(ctx context.Context, userID string) ([]domain.FeedPost, error) {
	posts, err := s.posts.ByUser(ctx, userID, UserPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("load user posts: %w", err)
	}
	return s.join(ctx, posts)
}

// Search returns the newest posts whose content or hashtags contain query.
func (s *PostService) Search(ctx context.Context, query string) ([]domain.FeedPost, error) {
	posts, err := s.posts.Search(ctx, strings.TrimSpace(query), PostSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return s.join(ctx, posts)
}

func (s *PostService) join(ctx context.Context, posts []domain.Post) ([]domain.FeedPost, error) {
	authors, err := s.directory.Summaries(ctx, domain.AuthorIDs(posts))
	if err != nil {
		return nil, err
	}
	return domain.JoinAuthors(posts, authors), nil
}

// Create publishes a post, counts its hashtags and returns it joined with its
// author.
func (s *PostService) Create(ctx context.Context, userID, content, image string) (*domain.FeedPost, error) {
	var (
		post   *domain.Post
		author *domain.User
	)

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		u, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		author = u

		post, err = domain.NewPost(uuid.NewString(), u, content, image, s.now.now())
		if err != nil {
			return err
		}

		if err := s.posts.Create(ctx, tx, post); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		for _, tag := range post.Hashtags {
			if err := s.hashtags.Increment(ctx, tx, tag, post.CreatedAt); err != nil {
				return fmt.Errorf("count hashtag %s: %w", tag, err)
			}
		}
		if err := s.users.IncrementPostsCount(ctx, tx, u.ID); err != nil {
			return fmt.Errorf("count post: %w", err)
		}

		return s.events.Record(ctx, tx, domain.EventPostCreated, post.ID, domain.PostCreatedEvent{
			PostID:    post.ID,
			UserID:    post.UserID,
			Hashtags:  post.Hashtags,
			CreatedAt: post.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log := observability.GetLogger(ctx)
	if len(post.Hashtags) > 0 && s.trending != nil {
		if err := s.trending.Invalidate(ctx); err != nil {
			log.Warn("trending cache invalidate failed", zap.Error(err))
		}
	}
	log.Info("post created", zap.String("post_id", post.ID), zap.String("user_id", userID))

	summary := author.Summary()
	joined := domain.JoinAuthors([]domain.Post{*post}, map[string]domain.UserSummary{author.ID: summary})
	return &joined[0], nil
}

// ToggleLike likes or unlikes postID for userID and reports the new state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	var liked bool
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		p, err := s.posts.GetForUpdate(ctx, tx, postID)
		if err != nil {
			return err
		}
		liked = p.ToggleLike(userID)
		return s.posts.UpdateLikes(ctx, tx, p.ID, p.Likes)
	})
	return liked, err
}

func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) (*domain.Comment, error) {
	var comment domain.Comment
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.posts.GetForUpdate(ctx, tx, postID); err != nil {
			return err
		}
		u, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		comment, err = domain.NewComment(u, text, s.now.now())
		if err != nil {
			return err
		}
		return s.posts.AppendComment(ctx, tx, postID, comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
