package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/repository"
	"github.com/epicgamers652-droid/IN-APP/internal/tx"
)

type AuthService struct {
	users  repository.UserRepository
	tx     tx.Transactor
	events EventRecorder
	hasher PasswordHasher
	tokens TokenIssuer

	now        clock
	avatarSeed func() int
}

func NewAuthService(users repository.UserRepository, transactor tx.Transactor, events EventRecorder, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:      users,
		tx:         transactor,
		events:     events,
		hasher:     hasher,
		tokens:     tokens,
		avatarSeed: func() int { return rand.IntN(100) },
	}
}

type Credentials struct {
	Username string
	Password string
	IsSignUp bool
}

type AuthResult struct {
	User  *domain.User
	Token string
}

// Authenticate signs a user up or logs them in, depending on c.IsSignUp, and
// issues an access token.
func (s *AuthService) Authenticate(ctx context.Context, c Credentials) (*AuthResult, error) {
	if c.Username == "" || c.Password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if len(c.Password) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	var (
		u   *domain.User
		err error
	)
	if c.IsSignUp {
		u, err = s.register(ctx, c.Username, c.Password)
	} else {
		u, err = s.login(ctx, c.Username, c.Password)
	}
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *AuthService) register(ctx context.Context, username, password string) (*domain.User, error) {
	log := observability.GetLogger(ctx)

	if _, err := s.users.GetByUsername(ctx, nil, username); err == nil {
		return nil, domain.ErrUsernameExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := domain.NewUser(uuid.NewString(), username, hash, s.avatarSeed(), s.now.now())

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.Create(ctx, tx, u); err != nil {
			return err
		}
		return s.events.Record(ctx, tx, domain.EventUserCreated, u.ID, domain.UserCreatedEvent{
			UserID:    u.ID,
			Username:  u.Username,
			CreatedAt: u.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info("user registered", zap.String("user_id", u.ID))
	return u, nil
}

func (s *AuthService) login(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.GetByUsername(ctx, nil, username)
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidPassword
	}
	return u, nil
}
