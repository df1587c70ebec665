package domain

import (
	"time"
	"unicode/utf8"
)

const MaxMessageSize = 5000

type Message struct {
	ID          string    `json:"_id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Text        string    `json:"text,omitempty"`
	Image       string    `json:"image,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewMessage validates a direct message. A message needs a recipient and at
// least one of text or image.
func NewMessage(id, senderID, recipientID, text, image string, now time.Time) (*Message, error) {
	if id == "" || senderID == "" || recipientID == "" {
		return nil, ErrInvalidMessage
	}
	if text == "" && image == "" {
		return nil, ErrInvalidMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}

	return &Message{
		ID:          id,
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        text,
		Image:       image,
		CreatedAt:   now.UTC(),
	}, nil
}

// Counterpart returns the other participant of m as seen by userID.
func (m Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}
