package socket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"amora_server/utils"
)

// Client → server events.
const (
	EventAnnounce    = "announce"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"
)

// Server → client events.
const (
	EventReceiveMessage = "receive_message"
	EventUserTyping     = "user_typing"
	EventUserStopTyping = "user_stop_typing"
	EventUserOnline     = "user_online"
	EventUserOffline    = "user_offline"
	EventUserUnmatched  = "user_unmatched"
)

// MessagePayload is the realtime message envelope relayed between clients.
type MessagePayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
}

// TypingPayload names the typing counterpart.
type TypingPayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin is handled by the CORS layer; the socket accepts all.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server owns the websocket endpoint and drives each connection through
// its lifecycle: connected, announced, disconnected.
type Server struct {
	Hub *Hub
	Log *zap.SugaredLogger
}

func NewServer(hub *Hub, log *zap.SugaredLogger) *Server {
	return &Server{Hub: hub, Log: log}
}

// ServeWS upgrades the request and runs the connection's read loop.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn)
	s.Log.Infow("socket connected", "remote", r.RemoteAddr)

	defer func() {
		conn.Close()
		if userID, removed := s.Hub.Remove(client); removed {
			s.Hub.Broadcast(EventUserOffline, userID)
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.Log.Infow("socket disconnected", "remote", r.RemoteAddr)
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			s.Log.Warnw("malformed socket event", "error", err)
			continue
		}
		s.handleEvent(client, event)
	}
}

func (s *Server) handleEvent(client *Client, event Event) {
	switch event.Event {
	case EventAnnounce:
		var payload struct {
			UserID string `json:"userId"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.UserID == "" {
			s.Log.Warnw("invalid announce payload")
			return
		}
		s.Hub.Announce(payload.UserID, client)
		s.Hub.Broadcast(EventUserOnline, payload.UserID)

	case EventSendMessage:
		var payload MessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			s.Log.Warnw("invalid send_message payload")
			return
		}
		if payload.Timestamp == "" {
			payload.Timestamp = utils.Timestamp(time.Now())
		}
		s.Hub.EmitTo(payload.ReceiverID, EventReceiveMessage, payload)

	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return
		}
		s.Hub.EmitTo(payload.ReceiverID, EventUserTyping, map[string]string{"userId": payload.SenderID})

	case EventStopTyping:
		var payload TypingPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return
		}
		s.Hub.EmitTo(payload.ReceiverID, EventUserStopTyping, map[string]string{"userId": payload.SenderID})

	default:
		s.Log.Debugw("unknown socket event", "event", event.Event)
	}
}
