package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() clock {
	return func() time.Time { return fixedNow }
}

type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	m.calls++
	return fn(ctx, nil)
}

type recordedEvent struct {
	Type    string
	Key     string
	Payload any
}

type mockRecorder struct {
	events []recordedEvent
	err    error
}

func (m *mockRecorder) Record(ctx context.Context, tx *sql.Tx, eventType, key string, payload any) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, recordedEvent{eventType, key, payload})
	return nil
}

// MockHasher and MockTokens follow testify's mock.Mock pattern.
type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(pw string) (string, error) {
	args := m.Called(pw)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, pw string) error {
	args := m.Called(hash, pw)
	return args.Error(0)
}

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Generate(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// memUsers is an in-memory UserRepository. Returned users are copies so
// callers only change state through the repository methods.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	order []string

	summaryCalls int
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		m.byID[u.ID] = copyUser(u)
		m.order = append(m.order, u.ID)
	}
	return m
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Followers = slices.Clone(u.Followers)
	c.Following = slices.Clone(u.Following)
	return &c
}

func (m *memUsers) Create(ctx context.Context, tx *sql.Tx, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == u.Username {
			return domain.ErrUsernameExists
		}
	}
	m.byID[u.ID] = copyUser(u)
	m.order = append(m.order, u.ID)
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, tx *sql.Tx, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (m *memUsers) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.User, error) {
	return m.GetByID(ctx, tx, id)
}

func (m *memUsers) GetByUsername(ctx context.Context, tx *sql.Tx, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) GetSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaryCalls++
	out := make(map[string]domain.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, tx *sql.Tx, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.byID[u.ID] = copyUser(u)
	return nil
}

func (m *memUsers) UpdateFollowLists(ctx context.Context, tx *sql.Tx, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	cur.Followers = slices.Clone(u.Followers)
	cur.Following = slices.Clone(u.Following)
	return nil
}

func (m *memUsers) IncrementPostsCount(ctx context.Context, tx *sql.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PostsCount++
	return nil
}

func (m *memUsers) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	out := []domain.User{}
	for _, id := range m.order {
		u := m.byID[id]
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Bio), q) {
			out = append(out, *copyUser(u))
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type memPosts struct {
	posts []domain.Post
}

func (m *memPosts) Create(ctx context.Context, tx *sql.Tx, p *domain.Post) error {
	m.posts = append(m.posts, *p)
	return nil
}

func (m *memPosts) find(id string) (int, error) {
	for i := range m.posts {
		if m.posts[i].ID == id {
			return i, nil
		}
	}
	return -1, domain.ErrPostNotFound
}

func (m *memPosts) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Post, error) {
	i, err := m.find(id)
	if err != nil {
		return nil, err
	}
	p := m.posts[i]
	p.Likes = slices.Clone(p.Likes)
	return &p, nil
}

func (m *memPosts) newest(keep func(domain.Post) bool, limit int) []domain.Post {
	out := []domain.Post{}
	for _, p := range m.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Post) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memPosts) Latest(ctx context.Context, limit int) ([]domain.Post, error) {
	return m.newest(func(domain.Post) bool { return true }, limit), nil
}

func (m *memPosts) ByUser(ctx context.Context, userID string, limit int) ([]domain.Post, error) {
	return m.newest(func(p domain.Post) bool { return p.UserID == userID }, limit), nil
}

func (m *memPosts) Search(ctx context.Context, query string, limit int) ([]domain.Post, error) {
	q := strings.ToLower(query)
	return m.newest(func(p domain.Post) bool {
		return strings.Contains(strings.ToLower(p.Content), q)
	}, limit), nil
}

func (m *memPosts) UpdateLikes(ctx context.Context, tx *sql.Tx, id string, likes []string) error {
	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.posts[i].Likes = slices.Clone(likes)
	return nil
}

func (m *memPosts) AppendComment(ctx context.Context, tx *sql.Tx, id string, c domain.Comment) error {
	i, err := m.find(id)
	if err != nil {
		return err
	}
	m.posts[i].Comments = append(m.posts[i].Comments, c)
	return nil
}

type memHashtags struct {
	tags     map[string]*domain.Hashtag
	topCalls int
}

func newMemHashtags() *memHashtags {
	return &memHashtags{tags: map[string]*domain.Hashtag{}}
}

func (m *memHashtags) Increment(ctx context.Context, tx *sql.Tx, name string, now time.Time) error {
	t, ok := m.tags[name]
	if !ok {
		t = &domain.Hashtag{ID: name, Name: name}
		m.tags[name] = t
	}
	t.Count++
	t.UpdatedAt = now
	return nil
}

func (m *memHashtags) sorted(keep func(domain.Hashtag) bool, limit int) []domain.Hashtag {
	out := []domain.Hashtag{}
	for _, t := range m.tags {
		if keep(*t) {
			out = append(out, *t)
		}
	}
	slices.SortFunc(out, func(a, b domain.Hashtag) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memHashtags) Top(ctx context.Context, limit int) ([]domain.Hashtag, error) {
	m.topCalls++
	return m.sorted(func(domain.Hashtag) bool { return true }, limit), nil
}

func (m *memHashtags) Search(ctx context.Context, query string, limit int) ([]domain.Hashtag, error) {
	q := strings.ToLower(query)
	return m.sorted(func(t domain.Hashtag) bool { return strings.Contains(t.Name, q) }, limit), nil
}

type memStories struct {
	stories     []domain.Story
	updateCalls int
}

func (m *memStories) Create(ctx context.Context, tx *sql.Tx, s *domain.Story) error {
	m.stories = append(m.stories, *s)
	return nil
}

func (m *memStories) Active(ctx context.Context, now time.Time) ([]domain.Story, error) {
	out := []domain.Story{}
	for _, s := range m.stories {
		if s.ActiveAt(now) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Story) int { return a.ExpiresAt.Compare(b.ExpiresAt) })
	return out, nil
}

func (m *memStories) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Story, error) {
	for _, s := range m.stories {
		if s.ID == id {
			s.Views = slices.Clone(s.Views)
			return &s, nil
		}
	}
	return nil, domain.ErrStoryNotFound
}

func (m *memStories) UpdateViews(ctx context.Context, tx *sql.Tx, id string, views []string) error {
	m.updateCalls++
	for i := range m.stories {
		if m.stories[i].ID == id {
			m.stories[i].Views = slices.Clone(views)
			return nil
		}
	}
	return domain.ErrStoryNotFound
}

func (m *memStories) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	kept := m.stories[:0]
	var n int64
	for _, s := range m.stories {
		if s.ActiveAt(now) {
			kept = append(kept, s)
		} else {
			n++
		}
	}
	m.stories = kept
	return n, nil
}

type memMessages struct {
	msgs []domain.Message
}

func (m *memMessages) Create(ctx context.Context, tx *sql.Tx, msg *domain.Message) error {
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memMessages) Between(ctx context.Context, userID, otherUserID string) ([]domain.Message, error) {
	out := []domain.Message{}
	for _, msg := range m.msgs {
		if (msg.SenderID == userID && msg.RecipientID == otherUserID) ||
			(msg.SenderID == otherUserID && msg.RecipientID == userID) {
			out = append(out, msg)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Message) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (m *memMessages) Involving(ctx context.Context, userID string) ([]domain.Message, error) {
	out := []domain.Message{}
	for _, msg := range m.msgs {
		if msg.SenderID == userID || msg.RecipientID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessages) MarkRead(ctx context.Context, recipientID string, ids []string) (int64, error) {
	var n int64
	for i := range m.msgs {
		if m.msgs[i].RecipientID == recipientID && slices.Contains(ids, m.msgs[i].ID) && !m.msgs[i].Read {
			m.msgs[i].Read = true
			n++
		}
	}
	return n, nil
}

// memAuthorCache is an AuthorCache backed by a map. failGet makes every read
// fail the way an unreachable redis would, failSet does the same for Set.
type memAuthorCache struct {
	entries map[string]domain.UserSummary
	failGet bool
	failSet bool
	deleted []string
}

func newMemAuthorCache() *memAuthorCache {
	return &memAuthorCache{entries: map[string]domain.UserSummary{}}
}

func (c *memAuthorCache) GetMany(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	if c.failGet {
		return nil, errors.New("redis: connection refused")
	}
	out := map[string]domain.UserSummary{}
	for _, id := range ids {
		if s, ok := c.entries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (c *memAuthorCache) AddMany(ctx context.Context, summaries []domain.UserSummary) error {
	for _, s := range summaries {
		if _, ok := c.entries[s.ID]; !ok {
			c.entries[s.ID] = s
		}
	}
	return nil
}

func (c *memAuthorCache) Set(ctx context.Context, s domain.UserSummary) error {
	if c.failSet {
		return errors.New("redis: connection refused")
	}
	c.entries[s.ID] = s
	return nil
}

func (c *memAuthorCache) Delete(ctx context.Context, id string) error {
	delete(c.entries, id)
	c.deleted = append(c.deleted, id)
	return nil
}

var errCacheMiss = errors.New("cache miss")

type memTrendingCache struct {
	tags        []domain.Hashtag
	ok          bool
	invalidated int
}

func (c *memTrendingCache) Get(ctx context.Context) ([]domain.Hashtag, error) {
	if !c.ok {
		return nil, errCacheMiss
	}
	return c.tags, nil
}

func (c *memTrendingCache) Set(ctx context.Context, tags []domain.Hashtag) error {
	c.tags, c.ok = tags, true
	return nil
}

func (c *memTrendingCache) Invalidate(ctx context.Context) error {
	c.tags, c.ok = nil, false
	c.invalidated++
	return nil
}

func testUser(id, username string) *domain.User {
	return domain.NewUser(id, username, "hash-"+username, len(id), fixedNow.Add(-time.Hour))
}
