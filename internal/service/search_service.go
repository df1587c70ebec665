package service

import (
	"context"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

type SearchType string

const (
	SearchAll      SearchType = "all"
	SearchUsers    SearchType = "users"
	SearchPosts    SearchType = "posts"
	SearchHashtags SearchType = "hashtags"
)

// SearchResult only carries the sections that were requested.
type SearchResult struct {
	Users    *[]domain.User     `json:"users,omitempty"`
	Posts    *[]domain.FeedPost `json:"posts,omitempty"`
	Hashtags *[]domain.Hashtag  `json:"hashtags,omitempty"`
}

type SearchService struct {
	users    *UserService
	posts    *PostService
	hashtags *HashtagService
}

func NewSearchService(users *UserService, posts *PostService, hashtags *HashtagService) *SearchService {
	return &SearchService{users: users, posts: posts, hashtags: hashtags}
}

// Search runs query against the sections selected by typ. An unknown type
// yields an empty result.
func (s *SearchService) Search(ctx context.Context, query string, typ SearchType) (*SearchResult, error) {
	if typ == "" {
		typ = SearchAll
	}
	res := &SearchResult{}

	if typ == SearchAll || typ == SearchUsers {
		users, err := s.users.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		res.Users = &users
	}

	if typ == SearchAll || typ == SearchPosts {
		posts, err := s.posts.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		res.Posts = &posts
	}

	if typ == SearchAll || typ == SearchHashtags {
		tags, err := s.hashtags.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		res.Hashtags = &tags
	}

	return res, nil
}
