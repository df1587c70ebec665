package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/epicgamers652-droid/IN-APP/internal/observability"
)

// Recorder turns domain events into outbox rows on the caller's transaction.
type Recorder struct {
	Repo   *Repository
	Prefix string
}

func NewRecorder(repo *Repository, prefix string) *Recorder {
	return &Recorder{Repo: repo, Prefix: prefix}
}

// Topic returns the Kafka topic that carries eventType.
func Topic(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

func (r *Recorder) Record(ctx context.Context, tx *sql.Tx, eventType, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	if err := r.Repo.InsertTx(ctx, tx, Topic(r.Prefix, eventType), key, b); err != nil {
		return fmt.Errorf("insert %s event: %w", eventType, err)
	}
	observability.DomainEventsTotal.WithLabelValues(eventType).Inc()
	return nil
}
