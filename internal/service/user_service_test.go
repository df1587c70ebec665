package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestToggleFollow(t *testing.T) {
	users := newMemUsers(testUser("a", "alice"), testUser("b", "bob"))
	rec := &mockRecorder{}
	s := NewUserService(users, &mockTransactor{}, rec, NewDirectory(users, nil))
	ctx := context.Background()

	following, err := s.ToggleFollow(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, following)

	a, _ := users.GetByID(ctx, nil, "a")
	b, _ := users.GetByID(ctx, nil, "b")
	assert.Equal(t, []string{"b"}, a.Following)
	assert.Equal(t, []string{"a"}, b.Followers)

	following, err = s.ToggleFollow(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, following)

	a, _ = users.GetByID(ctx, nil, "a")
	b, _ = users.GetByID(ctx, nil, "b")
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)

	require.Len(t, rec.events, 2)
	assert.Equal(t, domain.EventUserFollowed, rec.events[0].Type)
	assert.Equal(t, "b", rec.events[0].Key)
	assert.Equal(t, domain.UserFollowedEvent{FollowerID: "a", TargetID: "b", Following: false}, rec.events[1].Payload)
}

func TestToggleFollow_Errors(t *testing.T) {
	users := newMemUsers(testUser("a", "alice"))
	rec := &mockRecorder{}
	s := NewUserService(users, &mockTransactor{}, rec, NewDirectory(users, nil))

	_, err := s.ToggleFollow(context.Background(), "a", "a")
	assert.ErrorIs(t, err, domain.ErrSelfFollow)

	_, err = s.ToggleFollow(context.Background(), "a", "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.Empty(t, rec.events)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies present fields and refreshes cache", func(t *testing.T) {
		users := newMemUsers(testUser("a", "alice"))
		cache := newMemAuthorCache()
		cache.entries["a"] = domain.UserSummary{ID: "a", Username: "alice"}
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, cache))

		err := s.UpdateProfile(ctx, "a", domain.ProfileUpdate{Username: strPtr("  alicia "), Bio: strPtr("hi")})
		require.NoError(t, err)

		u, _ := users.GetByID(ctx, nil, "a")
		assert.Equal(t, "alicia", u.Username)
		assert.Equal(t, "hi", u.Bio)
		assert.Equal(t, "alice@in.local", u.Email)
		assert.Equal(t, "alicia", cache.entries["a"].Username)
		assert.Empty(t, cache.deleted)
	})

	t.Run("stale fill after update does not replace refreshed summary", func(t *testing.T) {
		users := newMemUsers(testUser("a", "alice"))
		cache := newMemAuthorCache()
		d := NewDirectory(users, cache)
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, d)

		stale, err := users.GetSummaries(ctx, []string{"a"})
		require.NoError(t, err)

		require.NoError(t, s.UpdateProfile(ctx, "a", domain.ProfileUpdate{Avatar: strPtr("new.png")}))
		require.NoError(t, cache.AddMany(ctx, []domain.UserSummary{stale["a"]}))

		got, err := d.Summaries(ctx, []string{"a"})
		require.NoError(t, err)
		assert.Equal(t, "new.png", got["a"].Avatar)
	})

	t.Run("refresh failure drops entry", func(t *testing.T) {
		users := newMemUsers(testUser("a", "alice"))
		cache := newMemAuthorCache()
		cache.entries["a"] = domain.UserSummary{ID: "a", Username: "alice"}
		cache.failSet = true
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, cache))

		require.NoError(t, s.UpdateProfile(ctx, "a", domain.ProfileUpdate{Username: strPtr("alicia")}))
		assert.Equal(t, []string{"a"}, cache.deleted)
		assert.NotContains(t, cache.entries, "a")
	})

	t.Run("bio only keeps cache", func(t *testing.T) {
		users := newMemUsers(testUser("a", "alice"))
		cache := newMemAuthorCache()
		cache.entries["a"] = domain.UserSummary{ID: "a", Username: "alice"}
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, cache))

		require.NoError(t, s.UpdateProfile(ctx, "a", domain.ProfileUpdate{Bio: strPtr("x")}))
		assert.Empty(t, cache.deleted)
		assert.Equal(t, "alice", cache.entries["a"].Username)
	})

	t.Run("username taken", func(t *testing.T) {
		users := newMemUsers(testUser("a", "alice"), testUser("b", "bob"))
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, nil))

		err := s.UpdateProfile(ctx, "a", domain.ProfileUpdate{Username: strPtr("bob")})
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("same username is not a conflict", func(t *testing.T) {
		users := newMemUsers(testUser("a", "alice"))
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, nil))

		assert.NoError(t, s.UpdateProfile(ctx, "a", domain.ProfileUpdate{Username: strPtr("alice")}))
	})

	t.Run("blank username", func(t *testing.T) {
		users := newMemUsers(testUser("a", "alice"))
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, nil))

		err := s.UpdateProfile(ctx, "a", domain.ProfileUpdate{Username: strPtr("   ")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := newMemUsers()
		s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, nil))

		err := s.UpdateProfile(ctx, "ghost", domain.ProfileUpdate{Bio: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestDirectorySummaries(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers(testUser("a", "alice"), testUser("b", "bob"))
	cache := newMemAuthorCache()
	d := NewDirectory(users, cache)

	got, err := d.Summaries(ctx, []string{"a", "b", "ghost"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "alice", got["a"].Username)
	assert.Equal(t, 1, users.summaryCalls)
	assert.Len(t, cache.entries, 2)

	got, err = d.Summaries(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, users.summaryCalls, "second lookup is served from cache")

	cache.failGet = true
	got, err = d.Summaries(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, "alice", got["a"].Username)
	assert.Equal(t, 2, users.summaryCalls)
}

func TestUserSearch(t *testing.T) {
	a := testUser("a", "alice")
	a.Bio = "Gopher"
	users := newMemUsers(a, testUser("b", "bob"))
	s := NewUserService(users, &mockTransactor{}, &mockRecorder{}, NewDirectory(users, nil))

	got, err := s.Search(context.Background(), " gopher ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got, err = s.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
