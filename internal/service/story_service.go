package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/repository"
	"github.com/epicgamers652-droid/IN-APP/internal/tx"
)

type StoryService struct {
	stories repository.StoryRepository
	users   repository.UserRepository
	tx      tx.Transactor
	events  EventRecorder

	now clock
}

func NewStoryService(stories repository.StoryRepository, users repository.UserRepository, transactor tx.Transactor, events EventRecorder) *StoryService {
	return &StoryService{stories: stories, users: users, tx: transactor, events: events}
}

// Active returns the visible stories grouped by author.
func (s *StoryService) Active(ctx context.Context) ([]domain.StoryGroup, error) {
	stories, err := s.stories.Active(ctx, s.now.now())
	if err != nil {
		return nil, fmt.Errorf("load stories: %w", err)
	}
	return domain.GroupStories(stories), nil
}

func (s *StoryService) Create(ctx context.Context, userID, image string) (*domain.Story, error) {
	var story *domain.Story
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		u, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		story, err = domain.NewStory(uuid.NewString(), u, image, s.now.now())
		if err != nil {
			return err
		}
		if err := s.stories.Create(ctx, tx, story); err != nil {
			return fmt.Errorf("insert story: %w", err)
		}
		return s.events.Record(ctx, tx, domain.EventStoryCreated, story.ID, domain.StoryCreatedEvent{
			StoryID:   story.ID,
			UserID:    story.UserID,
			ExpiresAt: story.ExpiresAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// View records viewerID on the story. Unknown stories are ignored.
func (s *StoryService) View(ctx context.Context, storyID, viewerID string) error {
	return s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		story, err := s.stories.GetForUpdate(ctx, tx, storyID)
		if errors.Is(err, domain.ErrStoryNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !story.AddView(viewerID) {
			return nil
		}
		return s.stories.UpdateViews(ctx, tx, story.ID, story.Views)
	})
}

// SweepExpired deletes stories that are no longer visible.
func (s *StoryService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.stories.DeleteExpired(ctx, s.now.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired stories: %w", err)
	}
	observability.StoriesSweptTotal.Add(float64(n))
	return n, nil
}
