package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
)

const trendingKey = "hashtags:trending"

// TrendingCache holds the most recent trending hashtag snapshot.
type TrendingCache struct {
	R   *redis.Client
	TTL time.Duration
}

func NewTrendingCache(r *redis.Client, ttl time.Duration) *TrendingCache {
	return &TrendingCache{R: r, TTL: ttl}
}

// Get returns the cached snapshot. A miss returns redis.Nil.
func (c *TrendingCache) Get(ctx context.Context) ([]domain.Hashtag, error) {
	b, err := c.R.Get(ctx, trendingKey).Bytes()
	if err != nil {
		observability.CacheRequestsTotal.WithLabelValues("trending", "miss").Inc()
		return nil, err
	}
	observability.CacheRequestsTotal.WithLabelValues("trending", "hit").Inc()

	var tags []domain.Hashtag
	return tags, json.Unmarshal(b, &tags)
}

func (c *TrendingCache) Set(ctx context.Context, tags []domain.Hashtag) error {
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, trendingKey, b, c.TTL).Err()
}

func (c *TrendingCache) Invalidate(ctx context.Context) error {
	return c.R.Del(ctx, trendingKey).Err()
}
