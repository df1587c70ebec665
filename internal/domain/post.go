package domain

import (
	"strings"
	"time"
)

// FeedLimit is the number of posts returned by the home feed.
const FeedLimit = 50

type Comment struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Post struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	Hashtags  []string  `json:"hashtags"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedPost is a post joined with the current state of its author.
// Author is nil when the author record no longer exists.
type FeedPost struct {
	Post
	Author *UserSummary `json:"author"`
}

// NewPost validates content and snapshots the author's username and avatar.
func NewPost(id string, author *User, content, image string, now time.Time) (*Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyPost
	}

	return &Post{
		ID:        id,
		UserID:    author.ID,
		Username:  author.Username,
		Avatar:    author.Avatar,
		Content:   content,
		Image:     image,
		Likes:     []string{},
		Comments:  []Comment{},
		Hashtags:  ExtractHashtags(content),
		CreatedAt: now.UTC(),
	}, nil
}

func NewComment(author *User, text string, now time.Time) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, ErrEmptyComment
	}
	return Comment{
		UserID:    author.ID,
		Username:  author.Username,
		Text:      text,
		CreatedAt: now.UTC(),
	}, nil
}

// ToggleLike adds or removes userID from the likes and reports whether the
// post is liked afterwards.
func (p *Post) ToggleLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			p.Likes = remove(p.Likes, userID)
			return false
		}
	}
	p.Likes = append(p.Likes, userID)
	return true
}

// AuthorIDs returns the distinct author ids of posts in first-seen order.
func AuthorIDs(posts []Post) []string {
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		ids = append(ids, p.UserID)
	}
	return ids
}

// JoinAuthors refreshes the denormalized author fields of every post from
// authors. Posts whose author is missing keep their stored snapshot and get a
// nil Author.
func JoinAuthors(posts []Post, authors map[string]UserSummary) []FeedPost {
	out := make([]FeedPost, 0, len(posts))
	for _, p := range posts {
		fp := FeedPost{Post: p}
		if a, ok := authors[p.UserID]; ok {
			fp.Username = a.Username
			fp.Avatar = a.Avatar
			author := a
			fp.Author = &author
		}
		out = append(out, fp)
	}
	return out
}
