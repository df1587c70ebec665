package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/repository"
	"github.com/epicgamers652-droid/IN-APP/internal/tx"
)

type UserService struct {
	users     repository.UserRepository
	tx        tx.Transactor
	events    EventRecorder
	directory *Directory
}

func NewUserService(users repository.UserRepository, transactor tx.Transactor, events EventRecorder, directory *Directory) *UserService {
	return &UserService{users: users, tx: transactor, events: events, directory: directory}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, nil, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, nil, username)
}

// Search returns up to UserSearchLimit users whose username or bio contains
// query. An empty query lists users.
func (s *UserService) Search(ctx context.Context, query string) ([]domain.User, error) {
	users, err := s.users.Search(ctx, strings.TrimSpace(query), UserSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the present fields of upd to the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) error {
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if name == "" {
			return domain.ErrInvalidInput
		}
		upd.Username = &name
	}

	var updated *domain.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		u, err := s.users.GetByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		if upd.Username != nil && *upd.Username != u.Username {
			other, err := s.users.GetByUsername(ctx, tx, *upd.Username)
			switch {
			case err == nil && other.ID != u.ID:
				return domain.ErrUsernameTaken
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return err
			}
		}

		u.Apply(upd)
		updated = u
		return s.users.UpdateProfile(ctx, tx, u)
	})
	if err != nil {
		return err
	}

	if upd.TouchesSummary() {
		s.directory.Refresh(ctx, updated.Summary())
	}
	return nil
}

// ToggleFollow follows targetID if userID does not follow them yet, and
// unfollows otherwise. Both user rows change in one transaction.
func (s *UserService) ToggleFollow(ctx context.Context, userID, targetID string) (bool, error) {
	if userID == targetID {
		return false, domain.ErrSelfFollow
	}

	var following bool
	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Lock in id order so concurrent opposite follows cannot deadlock.
		first, second := userID, targetID
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*domain.User, 2)
		for _, id := range []string{first, second} {
			u, err := s.users.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			locked[id] = u
		}

		follower, target := locked[userID], locked[targetID]
		var err error
		following, err = domain.ToggleFollow(follower, target)
		if err != nil {
			return err
		}

		if err := s.users.UpdateFollowLists(ctx, tx, follower); err != nil {
			return err
		}
		if err := s.users.UpdateFollowLists(ctx, tx, target); err != nil {
			return err
		}

		return s.events.Record(ctx, tx, domain.EventUserFollowed, targetID, domain.UserFollowedEvent{
			FollowerID: userID,
			TargetID:   targetID,
			Following:  following,
		})
	})
	if err != nil {
		return false, err
	}

	observability.GetLogger(ctx).Info("follow toggled",
		zap.String("user_id", userID), zap.String("target_id", targetID), zap.Bool("following", following))
	return following, nil
}
