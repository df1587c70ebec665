package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/repository"
)

// Directory resolves user ids to author summaries, reading through the cache.
// Cache failures degrade to database reads.
type Directory struct {
	users repository.UserRepository
	cache AuthorCache
}

func NewDirectory(users repository.UserRepository, cache AuthorCache) *Directory {
	return &Directory{users: users, cache: cache}
}

func (d *Directory) Summaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	log := observability.GetLogger(ctx)

	found := make(map[string]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	if d.cache != nil {
		cached, err := d.cache.GetMany(ctx, ids)
		if err != nil {
			log.Warn("author cache read failed", zap.Error(err))
		}
		for id, s := range cached {
			found[id] = s
		}
	}

	missing := make([]string, 0, len(ids)-len(found))
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return found, nil
	}

	fetched, err := d.users.GetSummaries(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	fill := make([]domain.UserSummary, 0, len(fetched))
	for id, s := range fetched {
		found[id] = s
		fill = append(fill, s)
	}

	if d.cache != nil && len(fill) > 0 {
		if err := d.cache.AddMany(ctx, fill); err != nil {
			log.Warn("author cache fill failed", zap.Error(err))
		}
	}
	return found, nil
}

// Refresh overwrites the cached summary after a committed profile change.
// If the write fails the entry is dropped instead.
func (d *Directory) Refresh(ctx context.Context, s domain.UserSummary) {
	if d.cache == nil {
		return
	}
	log := observability.GetLogger(ctx)

	err := d.cache.Set(ctx, s)
	if err == nil {
		return
	}
	log.Warn("author cache refresh failed", zap.String("user_id", s.ID), zap.Error(err))

	if err := d.cache.Delete(ctx, s.ID); err != nil {
		log.Warn("author cache invalidate failed", zap.String("user_id", s.ID), zap.Error(err))
	}
}
