package socket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event is the wire envelope for realtime traffic in both directions.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Conn is the transport a client sits on. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Client is one live connection. It starts unassociated; Announce binds it
// to an account identity.
type Client struct {
	conn   Conn
	userID string

	// gorilla/websocket allows one concurrent writer per connection.
	writeMu sync.Mutex
}

func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) writeEvent(event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(Event{Event: event, Data: payload})
}

// Hub is the process-local presence map: account identity to live
// connection. It is volatile state, rebuilt from nothing on restart, and is
// constructed once at startup and injected wherever fan-out happens.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		log:     log,
	}
}

// Announce binds the connection to an identity. A second announce for the
// same identity overwrites the first: last announce wins, and the previous
// connection is silently orphaned.
func (h *Hub) Announce(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Re-announcing under a new identity releases the old entry, as long
	// as it still points at this connection.
	if c.userID != "" && c.userID != userID {
		if current, ok := h.clients[c.userID]; ok && current == c {
			delete(h.clients, c.userID)
		}
	}
	c.userID = userID
	h.clients[userID] = c
	h.log.Infow("user announced", "userId", userID)
}

// Lookup returns the live connection for an identity, if any.
func (h *Hub) Lookup(userID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[userID]
	return c, ok
}

// Remove drops the presence entry for the disconnecting connection and
// reports which identity went offline. The entry is only deleted when it
// still points at this exact connection; if a newer connection already
// overwrote it, that entry survives.
func (h *Hub) Remove(c *Client) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.userID == "" {
		return "", false
	}
	if current, ok := h.clients[c.userID]; ok && current == c {
		delete(h.clients, c.userID)
		h.log.Infow("user removed from presence", "userId", c.userID)
		return c.userID, true
	}
	return "", false
}

// EmitTo delivers an event to one identity. Delivery is fire-and-forget: an
// offline recipient or a failed write drops the event, nothing is queued.
func (h *Hub) EmitTo(userID, event string, data interface{}) bool {
	client, ok := h.Lookup(userID)
	if !ok {
		return false
	}
	if err := client.writeEvent(event, data); err != nil {
		h.log.Warnw("failed to emit event", "event", event, "userId", userID, "error", err)
		return false
	}
	return true
}

// Broadcast delivers an event to every announced connection.
func (h *Hub) Broadcast(event string, data interface{}) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeEvent(event, data); err != nil {
			h.log.Warnw("failed to broadcast event", "event", event, "error", err)
		}
	}
}
