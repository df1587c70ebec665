package outbox

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/tx"
)

// Producer is the Kafka side of the publisher.
type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Publisher polls the outbox table and publishes unpublished events to Kafka.
type Publisher struct {
	repo      *Repository
	tx        tx.Transactor
	producer  Producer
	interval  time.Duration
	batchSize int
}

// NewPublisher creates a new outbox publisher.
func NewPublisher(repo *Repository, transactor tx.Transactor, producer Producer, interval time.Duration, batchSize int) *Publisher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Publisher{
		repo:      repo,
		tx:        transactor,
		producer:  producer,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start begins the polling loop. It blocks until the context is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	log := observability.GetLogger(ctx)
	log.Info("outbox publisher started", zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox publisher stopping")
			return
		case <-ticker.C:
			if n, err := p.PublishBatch(ctx); err != nil {
				log.Error("outbox batch failed", zap.Error(err))
			} else if n > 0 {
				log.Debug("outbox batch published", zap.Int("count", n))
			}
		}
	}
}

// PublishBatch publishes one batch and returns how many rows were marked
// published. A row whose publish fails stays pending for the next batch.
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	published := 0
	err := p.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		published = 0
		rows, err := p.repo.ClaimTx(ctx, tx, p.batchSize)
		if err != nil {
			return err
		}

		for _, row := range rows {
			if err := p.producer.Publish(ctx, row.Topic, []byte(row.Key), row.Payload); err != nil {
				observability.OutboxPublishedTotal.WithLabelValues(row.Topic, "error").Inc()
				observability.GetLogger(ctx).Warn("kafka publish failed",
					zap.String("topic", row.Topic), zap.String("id", row.ID), zap.Error(err))
				continue
			}
			if err := p.repo.MarkPublishedTx(ctx, tx, row.ID); err != nil {
				return err
			}
			observability.OutboxPublishedTotal.WithLabelValues(row.Topic, "ok").Inc()
			published++
		}
		return nil
	})
	return published, err
}
