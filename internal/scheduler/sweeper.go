package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/observability"
)

// StorySweeper deletes expired stories.
type StorySweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Sweeper runs the story sweep on a cron schedule.
type Sweeper struct {
	cron    *cron.Cron
	stories StorySweeper
	timeout time.Duration
}

// NewSweeper accepts standard five-field specs and descriptors such as
// "@every 10m" or "@hourly".
func NewSweeper(schedule string, stories StorySweeper) (*Sweeper, error) {
	s := &Sweeper{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		stories: stories,
		timeout: time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
	observability.GetLogger(context.Background()).Info("story sweeper started")
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	log := observability.GetLogger(ctx)
	n, err := s.stories.SweepExpired(ctx)
	if err != nil {
		log.Error("story sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("expired stories removed", zap.Int64("count", n))
	}
}
