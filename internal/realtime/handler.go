package realtime

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/epicgamers652-droid/IN-APP/internal/middleware"
	"github.com/epicgamers652-droid/IN-APP/internal/observability"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

// Handler upgrades authenticated requests to WebSocket sessions.
type Handler struct {
	registry *Registry
	verifier middleware.TokenVerifier
	upgrader websocket.Upgrader
}

func NewHandler(registry *Registry, verifier middleware.TokenVerifier) *Handler {
	return &Handler{
		registry: registry,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP GET /ws?token=<jwt>. Browsers cannot set headers on a WebSocket
// handshake, so the token travels in the query; a bearer header also works.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		transport.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := h.verifier.Verify(token)
	if err != nil {
		transport.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	log := observability.GetLogger(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	session := NewSession(uuid.NewString(), userID, conn)
	h.registry.Add(session)
	session.Start()

	observability.WebSocketConnections.Inc()
	log.Info("websocket connected", zap.String("user_id", userID), zap.String("session_id", session.ID))

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.readLoop(session)
}

// readLoop drains client frames until the connection fails. Clients only
// send control frames; anything else is ignored.
func (h *Handler) readLoop(s *Session) {
	defer func() {
		h.registry.Remove(s)
		s.Close()
		observability.WebSocketConnections.Dec()
		observability.GetLogger(context.Background()).Info("websocket disconnected",
			zap.String("user_id", s.UserID), zap.String("session_id", s.ID))
	}()

	for {
		if _, _, err := s.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				observability.GetLogger(context.Background()).Warn("websocket read failed",
					zap.String("user_id", s.UserID), zap.Error(err))
			}
			return
		}
	}
}
