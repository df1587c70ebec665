package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

type HashtagRepository struct {
	DB *sql.DB
}

func NewHashtagRepository(db *sql.DB) *HashtagRepository {
	return &HashtagRepository{DB: db}
}

// Increment bumps the usage count of name, creating the tag at 1.
func (r *HashtagRepository) Increment(ctx context.Context, tx *sql.Tx, name string, now time.Time) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		INSERT INTO hashtags (id, name, count, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (name) DO UPDATE
		SET count = hashtags.count + 1, updated_at = EXCLUDED.updated_at
	`, uuid.NewString(), name, now.UTC())
	return err
}

func (r *HashtagRepository) Top(ctx context.Context, limit int) ([]domain.Hashtag, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, count, updated_at
		FROM hashtags
		ORDER BY count DESC, name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top hashtags: %w", err)
	}
	return scanHashtags(rows)
}

func (r *HashtagRepository) Search(ctx context.Context, query string, limit int) ([]domain.Hashtag, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, count, updated_at
		FROM hashtags
		WHERE name ILIKE $1
		ORDER BY count DESC, name
		LIMIT $2
	`, containsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search hashtags: %w", err)
	}
	return scanHashtags(rows)
}

func scanHashtags(rows *sql.Rows) ([]domain.Hashtag, error) {
	defer rows.Close()

	tags := make([]domain.Hashtag, 0)
	for rows.Next() {
		var h domain.Hashtag
		if err := rows.Scan(&h.ID, &h.Name, &h.Count, &h.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, h)
	}
	return tags, rows.Err()
}
