package outbox

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Row represents a single unpublished outbox entry.
type Row struct {
	ID      string
	Topic   string
	Key     string
	Payload []byte
}

// Repository manages the transactional outbox table.
type Repository struct{ DB *sql.DB }

// NewRepository returns an outbox repository backed by the given DB.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// InsertTx inserts a new outbox event inside an existing transaction.
func (r *Repository) InsertTx(ctx context.Context, tx *sql.Tx, topic, key string, payload []byte) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO outbox (id, topic, key, payload) VALUES ($1,$2,$3,$4)`,
		uuid.NewString(), topic, key, payload)
	return err
}

// ClaimTx locks up to limit unpublished rows, oldest first. Rows locked by
// another publisher are skipped.
func (r *Repository) ClaimTx(ctx context.Context, tx *sql.Tx, limit int) ([]Row, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, topic, key, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Topic, &row.Key, &row.Payload); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MarkPublishedTx sets the published_at timestamp for the given outbox row.
func (r *Repository) MarkPublishedTx(ctx context.Context, tx *sql.Tx, id string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE outbox SET published_at = NOW() WHERE id = $1`, id)
	return err
}
