package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

type PostRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{DB: db}
}

const postColumns = `id, user_id, username, avatar, content, image, likes, comments, hashtags, created_at`

func scanPost(s rowScanner) (*domain.Post, error) {
	var (
		p        domain.Post
		comments []byte
	)
	err := s.Scan(
		&p.ID, &p.UserID, &p.Username, &p.Avatar, &p.Content, &p.Image,
		pq.Array(&p.Likes), &comments, pq.Array(&p.Hashtags), &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &p.Comments); err != nil {
			return nil, fmt.Errorf("decode comments of post %s: %w", p.ID, err)
		}
	}
	if p.Comments == nil {
		p.Comments = []domain.Comment{}
	}
	p.Likes = nonNil(p.Likes)
	p.Hashtags = nonNil(p.Hashtags)
	return &p, nil
}

func (r *PostRepository) scanAll(rows *sql.Rows) ([]domain.Post, error) {
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Create(ctx context.Context, tx *sql.Tx, p *domain.Post) error {
	comments, err := json.Marshal(p.Comments)
	if err != nil {
		return err
	}
	if p.Comments == nil {
		comments = []byte("[]")
	}

	q := getter(r.DB, tx)
	_, err = q.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10)
	`,
		p.ID, p.UserID, p.Username, p.Avatar, p.Content, p.Image,
		pq.Array(nonNil(p.Likes)), string(comments), pq.Array(nonNil(p.Hashtags)), p.CreatedAt,
	)
	return err
}

func (r *PostRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Post, error) {
	p, err := scanPost(getter(r.DB, tx).QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	return p, err
}

func (r *PostRepository) Latest(ctx context.Context, limit int) ([]domain.Post, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("latest posts: %w", err)
	}
	return r.scanAll(rows)
}

func (r *PostRepository) ByUser(ctx context.Context, userID string, limit int) ([]domain.Post, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("posts by user: %w", err)
	}
	return r.scanAll(rows)
}

// Search matches query case-insensitively against content or any hashtag.
func (r *PostRepository) Search(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE content ILIKE $1
		   OR EXISTS (SELECT 1 FROM unnest(hashtags) AS tag WHERE tag ILIKE $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, containsPattern(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return r.scanAll(rows)
}

func (r *PostRepository) UpdateLikes(ctx context.Context, tx *sql.Tx, id string, likes []string) error {
	res, err := getter(r.DB, tx).ExecContext(ctx,
		`UPDATE posts SET likes = $2 WHERE id = $1`, id, pq.Array(nonNil(likes)))
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrPostNotFound)
}

func (r *PostRepository) AppendComment(ctx context.Context, tx *sql.Tx, id string, c domain.Comment) error {
	b, err := json.Marshal([]domain.Comment{c})
	if err != nil {
		return err
	}

	res, err := getter(r.DB, tx).ExecContext(ctx,
		`UPDATE posts SET comments = comments || $2::jsonb WHERE id = $1`, id, string(b))
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrPostNotFound)
}
