package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
)

// AuthorCache keeps the author summaries used to join posts and conversations.
type AuthorCache struct {
	R   *redis.Client
	TTL time.Duration
}

func NewAuthorCache(r *redis.Client, ttl time.Duration) *AuthorCache {
	return &AuthorCache{R: r, TTL: ttl}
}

func authorKey(id string) string { return "author:" + id }

// GetMany returns the cached summaries among ids. Misses are simply absent
// from the result.
func (c *AuthorCache) GetMany(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	out := make(map[string]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = authorKey(id)
	}

	vals, err := c.R.MGet(ctx, keys...).Result()
	if err != nil {
		return out, err
	}

	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var sum domain.UserSummary
		if err := json.Unmarshal([]byte(s), &sum); err != nil {
			continue
		}
		out[ids[i]] = sum
	}

	observability.CacheRequestsTotal.WithLabelValues("author", "hit").Add(float64(len(out)))
	observability.CacheRequestsTotal.WithLabelValues("author", "miss").Add(float64(len(ids) - len(out)))
	return out, nil
}

// AddMany fills the cache after a database read. Existing entries are never
// overwritten, so a fill racing a profile update cannot replace the summary
// written by Set.
func (c *AuthorCache) AddMany(ctx context.Context, summaries []domain.UserSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	pipe := c.R.Pipeline()
	for _, s := range summaries {
		b, err := json.Marshal(s)
		if err != nil {
			return err
		}
		pipe.SetNX(ctx, authorKey(s.ID), b, c.TTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Set stores s unconditionally.
func (c *AuthorCache) Set(ctx context.Context, s domain.UserSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, authorKey(s.ID), b, c.TTL).Err()
}

func (c *AuthorCache) Delete(ctx context.Context, id string) error {
	return c.R.Del(ctx, authorKey(id)).Err()
}

// IsMiss reports whether err only signals an absent key.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
