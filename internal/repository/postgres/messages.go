package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

const messageColumns = `id, sender_id, recipient_id, text, image, read, created_at`

func (r *MessageRepository) Create(ctx context.Context, tx *sql.Tx, m *domain.Message) error {
	_, err := getter(r.DB, tx).ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.SenderID, m.RecipientID, m.Text, m.Image, m.Read, m.CreatedAt)
	return err
}

// Between returns the messages exchanged by the two users in both
// directions, oldest first.
func (r *MessageRepository) Between(ctx context.Context, userID, otherUserID string) ([]domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at, id
	`, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("messages between: %w", err)
	}
	return scanMessages(rows)
}

// Involving returns every message the user sent or received, oldest first.
// Received messages sort ahead of sent ones with the same timestamp.
func (r *MessageRepository) Involving(ctx context.Context, userID string) ([]domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE recipient_id = $1 OR sender_id = $1
		ORDER BY created_at, (sender_id = $1), id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("messages involving: %w", err)
	}
	return scanMessages(rows)
}

// MarkRead flags the given messages as read, restricted to those addressed to
// recipientID.
func (r *MessageRepository) MarkRead(ctx context.Context, recipientID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE messages SET read = TRUE
		WHERE recipient_id = $1 AND id = ANY($2) AND read = FALSE
	`, recipientID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return res.RowsAffected()
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	defer rows.Close()

	msgs := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Text, &m.Image, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
