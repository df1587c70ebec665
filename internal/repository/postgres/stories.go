package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

type StoryRepository struct {
	DB *sql.DB
}

func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{DB: db}
}

const storyColumns = `id, user_id, username, avatar, image, views, expires_at, created_at`

func scanStory(s rowScanner) (*domain.Story, error) {
	var st domain.Story
	err := s.Scan(&st.ID, &st.UserID, &st.Username, &st.Avatar, &st.Image,
		pq.Array(&st.Views), &st.ExpiresAt, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	st.Views = nonNil(st.Views)
	return &st, nil
}

func (r *StoryRepository) Create(ctx context.Context, tx *sql.Tx, s *domain.Story) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		INSERT INTO stories (`+storyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.UserID, s.Username, s.Avatar, s.Image, pq.Array(nonNil(s.Views)), s.ExpiresAt, s.CreatedAt)
	return err
}

// Active returns stories still visible at now, soonest to expire first.
func (r *StoryRepository) Active(ctx context.Context, now time.Time) ([]domain.Story, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+storyColumns+`
		FROM stories
		WHERE expires_at > $1
		ORDER BY expires_at, id
	`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("active stories: %w", err)
	}
	defer rows.Close()

	stories := make([]domain.Story, 0)
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, *s)
	}
	return stories, rows.Err()
}

func (r *StoryRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Story, error) {
	s, err := scanStory(getter(r.DB, tx).QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStoryNotFound
	}
	return s, err
}

func (r *StoryRepository) UpdateViews(ctx context.Context, tx *sql.Tx, id string, views []string) error {
	res, err := getter(r.DB, tx).ExecContext(ctx,
		`UPDATE stories SET views = $2 WHERE id = $1`, id, pq.Array(nonNil(views)))
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrStoryNotFound)
}

func (r *StoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM stories WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired stories: %w", err)
	}
	return res.RowsAffected()
}
