package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/domain"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
)

// Event is the frame pushed to WebSocket clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Dispatcher fans message.sent events out to the local sessions of both
// participants. It implements kafka.Handler.
type Dispatcher struct {
	registry     *Registry
	messageTopic string
}

func NewDispatcher(registry *Registry, messageTopic string) *Dispatcher {
	return &Dispatcher{registry: registry, messageTopic: messageTopic}
}

func (d *Dispatcher) Handle(ctx context.Context, topic string, value []byte) {
	if topic != d.messageTopic {
		return
	}
	log := observability.GetLogger(ctx)

	var msg domain.Message
	if err := json.Unmarshal(value, &msg); err != nil {
		log.Error("dispatcher: decode message event", zap.Error(err))
		observability.RealtimeDeliveredTotal.WithLabelValues("decode_error").Inc()
		return
	}

	frame, err := json.Marshal(Event{Type: domain.EventMessageSent, Data: msg})
	if err != nil {
		log.Error("dispatcher: encode frame", zap.Error(err))
		return
	}

	for _, userID := range participants(msg) {
		for _, s := range d.registry.UserSessions(userID) {
			if s.TrySend(frame) {
				observability.RealtimeDeliveredTotal.WithLabelValues("delivered").Inc()
			} else {
				observability.RealtimeDeliveredTotal.WithLabelValues("dropped").Inc()
			}
		}
	}
}

func participants(m domain.Message) []string {
	if m.SenderID == m.RecipientID {
		return []string{m.SenderID}
	}
	return []string{m.SenderID, m.RecipientID}
}
