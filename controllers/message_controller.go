package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"amora_server/apperrors"
	"amora_server/middleware"
	"amora_server/services"
	"amora_server/socket"
)

// MessageController handles conversation history. Persisting goes through
// the chat service; delivery to an online counterpart goes through the hub.
type MessageController struct {
	Chat *services.ChatService
	Hub  *socket.Hub
}

func NewMessageController(chat *services.ChatService, hub *socket.Hub) *MessageController {
	return &MessageController{Chat: chat, Hub: hub}
}

// HandleGetConversations returns the caller's conversation summaries,
// newest activity first.
func (c *MessageController) HandleGetConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	conversations, err := c.Chat.ListConversations(r.Context(), userID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	for i := range conversations {
		_, online := c.Hub.Lookup(conversations[i].UserID)
		conversations[i].IsOnline = online
	}
	writeJSON(w, http.StatusOK, conversations)
}

// HandleGetMessages returns the conversation with the counterpart in the
// path. Viewing marks the caller's unread messages as read.
func (c *MessageController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	counterpartID := mux.Vars(r)["userId"]

	messages, err := c.Chat.ListMessages(r.Context(), userID, counterpartID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleSendMessage persists a message and delivers it to the receiver when
// they are online; offline receivers simply find it unread later.
func (c *MessageController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	var req struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	message, err := c.Chat.SendMessage(r.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	c.Hub.EmitTo(message.ReceiverID, socket.EventReceiveMessage, socket.MessagePayload{
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		Timestamp:  message.CreatedAt,
	})

	writeJSON(w, http.StatusCreated, message)
}

// HandleMarkRead marks the conversation with the counterpart as read.
func (c *MessageController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	counterpartID := mux.Vars(r)["userId"]

	if _, err := c.Chat.MarkRead(r.Context(), userID, counterpartID); err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}
