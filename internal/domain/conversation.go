package domain

import (
	"cmp"
	"slices"
	"time"
)

// ImagePlaceholder previews a last message that carries only an image.
const ImagePlaceholder = "Sent an image"

type LastMessage struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	IsRead    bool      `json:"isRead"`
}

// Conversation is one row of the inbox: the other participant and the most
// recent message exchanged with them.
type Conversation struct {
	User        UserSummary `json:"user"`
	LastMessage LastMessage `json:"lastMessage"`
}

// LatestByCounterpart keys msgs by the other participant and keeps the latest
// message per key. On equal timestamps the first message seen wins.
func LatestByCounterpart(userID string, msgs []Message) map[string]Message {
	latest := make(map[string]Message)
	for _, m := range msgs {
		other := m.Counterpart(userID)
		cur, ok := latest[other]
		if !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[other] = m
		}
	}
	return latest
}

// BuildConversations derives the inbox of userID from a flat message log.
// Counterparts missing from users are skipped. The result is ordered by last
// message time, newest first, ties broken by counterpart id.
func BuildConversations(userID string, msgs []Message, users map[string]UserSummary) []Conversation {
	latest := LatestByCounterpart(userID, msgs)

	out := make([]Conversation, 0, len(latest))
	for other, m := range latest {
		u, ok := users[other]
		if !ok {
			continue
		}
		text := m.Text
		if text == "" {
			text = ImagePlaceholder
		}
		out = append(out, Conversation{
			User: u,
			LastMessage: LastMessage{
				Text:      text,
				CreatedAt: m.CreatedAt,
				IsRead:    m.Read,
			},
		})
	}

	slices.SortFunc(out, func(a, b Conversation) int {
		if c := b.LastMessage.CreatedAt.Compare(a.LastMessage.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.User.ID, b.User.ID)
	})
	return out
}

// CounterpartIDs lists the distinct other participants in msgs.
func CounterpartIDs(userID string, msgs []Message) []string {
	latest := LatestByCounterpart(userID, msgs)
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
