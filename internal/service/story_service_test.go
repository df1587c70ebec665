package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

func newStoryFixture(users ...*domain.User) (*StoryService, *memStories, *mockRecorder) {
	stories := &memStories{}
	rec := &mockRecorder{}
	s := NewStoryService(stories, newMemUsers(users...), &mockTransactor{}, rec)
	s.now = fixedClock()
	return s, stories, rec
}

func TestCreateStory(t *testing.T) {
	s, stories, rec := newStoryFixture(testUser("a", "alice"))

	st, err := s.Create(context.Background(), "a", "pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, "alice", st.Username)
	assert.Equal(t, fixedNow.Add(24*time.Hour), st.ExpiresAt)
	assert.Empty(t, st.Views)
	assert.Len(t, stories.stories, 1)
	require.Len(t, rec.events, 1)
	assert.Equal(t, domain.EventStoryCreated, rec.events[0].Type)

	_, err = s.Create(context.Background(), "a", "")
	assert.ErrorIs(t, err, domain.ErrEmptyStory)

	_, err = s.Create(context.Background(), "ghost", "pic.jpg")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestActiveStoriesGrouped(t *testing.T) {
	s, stories, _ := newStoryFixture()
	stories.stories = []domain.Story{
		{ID: "s1", UserID: "b", Username: "bob", ExpiresAt: fixedNow.Add(2 * time.Hour)},
		{ID: "s2", UserID: "a", Username: "alice", ExpiresAt: fixedNow.Add(time.Hour)},
		{ID: "s3", UserID: "b", Username: "bob", ExpiresAt: fixedNow.Add(3 * time.Hour)},
		{ID: "old", UserID: "c", Username: "carol", ExpiresAt: fixedNow},
	}

	groups, err := s.Active(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].UserID)
	assert.Equal(t, "b", groups[1].UserID)
	require.Len(t, groups[1].Stories, 2)
	assert.Equal(t, "s1", groups[1].Stories[0].ID)
	assert.Equal(t, "s3", groups[1].Stories[1].ID)
}

func TestViewStory(t *testing.T) {
	s, stories, _ := newStoryFixture()
	stories.stories = []domain.Story{{ID: "s1", UserID: "a", Views: []string{}, ExpiresAt: fixedNow.Add(time.Hour)}}
	ctx := context.Background()

	require.NoError(t, s.View(ctx, "s1", "b"))
	require.NoError(t, s.View(ctx, "s1", "b"))
	assert.Equal(t, []string{"b"}, stories.stories[0].Views)
	assert.Equal(t, 1, stories.updateCalls)

	assert.NoError(t, s.View(ctx, "missing", "b"))
}

func TestSweepExpired(t *testing.T) {
	s, stories, _ := newStoryFixture()
	stories.stories = []domain.Story{
		{ID: "live", ExpiresAt: fixedNow.Add(time.Minute)},
		{ID: "edge", ExpiresAt: fixedNow},
		{ID: "dead", ExpiresAt: fixedNow.Add(-time.Minute)},
	}

	n, err := s.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	require.Len(t, stories.stories, 1)
	assert.Equal(t, "live", stories.stories[0].ID)
}
