package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/repository"
	"github.com/epicgamers652-droid/IN-APP/internal/tx"
)

type MessageService struct {
	messages  repository.MessageRepository
	users     repository.UserRepository
	tx        tx.Transactor
	events    EventRecorder
	directory *Directory

	now clock
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, transactor tx.Transactor, events EventRecorder, directory *Directory) *MessageService {
	return &MessageService{messages: messages, users: users, tx: transactor, events: events, directory: directory}
}

// Thread returns the messages between userID and otherUserID, oldest first.
func (s *MessageService) Thread(ctx context.Context, userID, otherUserID string) ([]domain.Message, error) {
	if otherUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	msgs, err := s.messages.Between(ctx, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	return msgs, nil
}

// Conversations derives the inbox of userID from every message they sent or
// received.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	msgs, err := s.messages.Involving(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	users, err := s.directory.Summaries(ctx, domain.CounterpartIDs(userID, msgs))
	if err != nil {
		return nil, err
	}
	return domain.BuildConversations(userID, msgs, users), nil
}

// Send stores a direct message and emits a message.sent event for realtime
// delivery.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, text, image string) (*domain.Message, error) {
	msg, err := domain.NewMessage(uuid.NewString(), senderID, recipientID, text, image, s.now.now())
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.users.GetByID(ctx, tx, recipientID); err != nil {
			return err
		}
		if err := s.messages.Create(ctx, tx, msg); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return s.events.Record(ctx, tx, domain.EventMessageSent, msg.RecipientID, msg)
	})
	if err != nil {
		return nil, err
	}

	observability.GetLogger(ctx).Info("message sent",
		zap.String("message_id", msg.ID), zap.String("sender_id", senderID))
	return msg, nil
}

// MarkRead flags the messages addressed to userID among ids as read.
func (s *MessageService) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	return s.messages.MarkRead(ctx, userID, ids)
}
