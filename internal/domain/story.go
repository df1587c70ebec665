package domain

import (
	"slices"
	"strings"
	"time"
)

// StoryTTL is how long a story stays visible after it is posted.
const StoryTTL = 24 * time.Hour

type Story struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Image     string    `json:"image"`
	Views     []string  `json:"views"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoryGroup is the per-author bucket returned by the stories tray.
type StoryGroup struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Avatar   string  `json:"avatar"`
	Stories  []Story `json:"stories"`
}

func NewStory(id string, author *User, image string, now time.Time) (*Story, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, ErrEmptyStory
	}
	now = now.UTC()
	return &Story{
		ID:        id,
		UserID:    author.ID,
		Username:  author.Username,
		Avatar:    author.Avatar,
		Image:     image,
		Views:     []string{},
		ExpiresAt: now.Add(StoryTTL),
		CreatedAt: now,
	}, nil
}

// ActiveAt reports whether the story is visible at now.
func (s Story) ActiveAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// AddView records viewerID once. It reports whether the view list changed.
func (s *Story) AddView(viewerID string) bool {
	if slices.Contains(s.Views, viewerID) {
		return false
	}
	s.Views = append(s.Views, viewerID)
	return true
}

// GroupStories buckets stories by author, keeping the order in which each
// author first appears and the input order within a bucket.
func GroupStories(stories []Story) []StoryGroup {
	index := make(map[string]int)
	groups := make([]StoryGroup, 0)
	for _, s := range stories {
		i, ok := index[s.UserID]
		if !ok {
			i = len(groups)
			index[s.UserID] = i
			groups = append(groups, StoryGroup{
				UserID:   s.UserID,
				Username: s.Username,
				Avatar:   s.Avatar,
				Stories:  []Story{},
			})
		}
		groups[i].Stories = append(groups[i].Stories, s)
	}
	return groups
}
