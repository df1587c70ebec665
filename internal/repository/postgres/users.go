package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, password_hash, avatar, bio, website, pronouns, is_private,
	followers, following, blocked_users, follow_requests, posts_count, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(s rowScanner) (*domain.User, error) {
	var u domain.User
	err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Avatar, &u.Bio,
		&u.Website, &u.Pronouns, &u.IsPrivate,
		pq.Array(&u.Followers), pq.Array(&u.Following),
		pq.Array(&u.BlockedUsers), pq.Array(&u.FollowRequests),
		&u.PostsCount, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Followers = nonNil(u.Followers)
	u.Following = nonNil(u.Following)
	u.BlockedUsers = nonNil(u.BlockedUsers)
	u.FollowRequests = nonNil(u.FollowRequests)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, tx *sql.Tx, u *domain.User) error {
	q := getter(r.DB, tx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Avatar, u.Bio,
		u.Website, u.Pronouns, u.IsPrivate,
		pq.Array(nonNil(u.Followers)), pq.Array(nonNil(u.Following)),
		pq.Array(nonNil(u.BlockedUsers)), pq.Array(nonNil(u.FollowRequests)),
		u.PostsCount, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrUsernameExists
	}
	return err
}

func (r *UserRepository) getOne(ctx context.Context, tx *sql.Tx, query string, arg string) (*domain.User, error) {
	u, err := scanUser(getter(r.DB, tx).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) GetByID(ctx context.Context, tx *sql.Tx, id string) (*domain.User, error) {
	return r.getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.User, error) {
	return r.getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, tx *sql.Tx, username string) (*domain.User, error) {
	return r.getOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetSummaries returns the author summaries of the ids that exist.
func (r *UserRepository) GetSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	out := make(map[string]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, username, avatar FROM users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.Avatar); err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, tx *sql.Tx, u *domain.User) error {
	q := getter(r.DB, tx)
	res, err := q.ExecContext(ctx, `
		UPDATE users
		SET username = $2, bio = $3, website = $4, pronouns = $5, avatar = $6, is_private = $7
		WHERE id = $1
	`, u.ID, u.Username, u.Bio, u.Website, u.Pronouns, u.Avatar, u.IsPrivate)
	if isUniqueViolation(err) {
		return domain.ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrUserNotFound)
}

func (r *UserRepository) UpdateFollowLists(ctx context.Context, tx *sql.Tx, u *domain.User) error {
	q := getter(r.DB, tx)
	res, err := q.ExecContext(ctx, `
		UPDATE users SET followers = $2, following = $3 WHERE id = $1
	`, u.ID, pq.Array(nonNil(u.Followers)), pq.Array(nonNil(u.Following)))
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrUserNotFound)
}

func (r *UserRepository) IncrementPostsCount(ctx context.Context, tx *sql.Tx, id string) error {
	q := getter(r.DB, tx)
	_, err := q.ExecContext(ctx, `UPDATE users SET posts_count = posts_count + 1 WHERE id = $1`, id)
	return err
}

// Search matches query case-insensitively against username or bio. An empty
// query matches everyone.
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE $1 OR bio ILIKE $1
		ORDER BY created_at, id
		LIMIT $2
	`, containsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
