package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/epicgamers652-droid/IN-APP/internal/middleware"
	"github.com/epicgamers652-droid/IN-APP/internal/transport"
)

// MessageHandler serves direct messages and the derived conversation list.
type MessageHandler struct {
	messages MessageService
}

func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Thread GET /api/messages?otherUserId=
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	other := r.URL.Query().Get("otherUserId")
	if other == "" {
		transport.WriteError(w, http.StatusBadRequest, "otherUserId is required")
		return
	}

	msgs, err := h.messages.Thread(r.Context(), middleware.UserID(r.Context()), other)
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch messages")
		return
	}
	transport.WriteJSON(w, http.StatusOK, msgs)
}

// Send POST /api/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecipientID string `json:"recipientId"`
		Text        string `json:"text"`
		Image       string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RecipientID == "" || (req.Text == "" && req.Image == "") {
		transport.WriteError(w, http.StatusBadRequest, "Recipient and content are required")
		return
	}

	msg, err := h.messages.Send(r.Context(), middleware.UserID(r.Context()), req.RecipientID, req.Text, req.Image)
	if err != nil {
		transport.MapError(w, r, err, "Failed to send message")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"id": msg.ID})
}

// MarkRead POST /api/messages/read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageIDs []string `json:"messageIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.messages.MarkRead(r.Context(), middleware.UserID(r.Context()), req.MessageIDs); err != nil {
		transport.MapError(w, r, err, "Failed to mark messages as read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Conversations GET /api/conversations
func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.messages.Conversations(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		transport.MapError(w, r, err, "Failed to fetch conversations")
		return
	}
	transport.WriteJSON(w, http.StatusOK, convs)
}
