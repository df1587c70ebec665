package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

func newSearchService() *SearchService {
	alice := testUser("a", "alice")
	users := newMemUsers(alice)
	dir := NewDirectory(users, nil)
	posts := &memPosts{posts: []domain.Post{{ID: "p1", UserID: "a", Content: "learning alice's #go", CreatedAt: fixedNow}}}
	tags := newMemHashtags()
	_ = tags.Increment(context.Background(), nil, "#go", fixedNow)

	return NewSearchService(
		NewUserService(users, &mockTransactor{}, &mockRecorder{}, dir),
		NewPostService(posts, users, tags, &mockTransactor{}, &mockRecorder{}, dir, nil),
		NewHashtagService(tags, nil),
	)
}

func TestSearchSections(t *testing.T) {
	s := newSearchService()
	ctx := context.Background()

	tests := []struct {
		typ      SearchType
		wantKeys []string
	}{
		{"", []string{"users", "posts", "hashtags"}},
		{SearchAll, []string{"users", "posts", "hashtags"}},
		{SearchUsers, []string{"users"}},
		{SearchPosts, []string{"posts"}},
		{SearchHashtags, []string{"hashtags"}},
		{"bogus", []string{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			res, err := s.Search(ctx, "al", tt.typ)
			require.NoError(t, err)

			b, err := json.Marshal(res)
			require.NoError(t, err)
			var body map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(b, &body))

			keys := make([]string, 0, len(body))
			for k := range body {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.wantKeys, keys)
		})
	}
}

func TestSearchEmptySectionIsArray(t *testing.T) {
	res, err := newSearchService().Search(context.Background(), "zzz", SearchHashtags)
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hashtags":[]}`, string(b))
}
