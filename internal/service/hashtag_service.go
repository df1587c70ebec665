package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/repository"
)

type HashtagService struct {
	hashtags repository.HashtagRepository
	cache    TrendingCache
}

func NewHashtagService(hashtags repository.HashtagRepository, cache TrendingCache) *HashtagService {
	return &HashtagService{hashtags: hashtags, cache: cache}
}

// Trending returns the most used hashtags, served from cache when fresh.
func (s *HashtagService) Trending(ctx context.Context) ([]domain.Hashtag, error) {
	log := observability.GetLogger(ctx)

	if s.cache != nil {
		if tags, err := s.cache.Get(ctx); err == nil {
			return tags, nil
		}
	}

	tags, err := s.hashtags.Top(ctx, domain.TrendingLimit)
	if err != nil {
		return nil, fmt.Errorf("load trending: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tags); err != nil {
			log.Warn("trending cache fill failed", zap.Error(err))
		}
	}
	return tags, nil
}

func (s *HashtagService) Search(ctx context.Context, query string) ([]domain.Hashtag, error) {
	tags, err := s.hashtags.Search(ctx, strings.TrimSpace(query), domain.HashtagSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search hashtags: %w", err)
	}
	return tags, nil
}
