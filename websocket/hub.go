package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans transcript events out to clients watching a session. Clients
// are read-only; turns always go through the HTTP endpoints.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan sessionEvent
	mu         sync.RWMutex
}

type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	UserID    string
	SessionID string
}

// TranscriptEvent mirrors a stored conversation message. Seq lets the
// client order events and detect gaps after a reconnect.
type TranscriptEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Seq       int    `json:"seq"`
}

type sessionEvent struct {
	sessionID string
	payload   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan sessionEvent),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			slog.Info("Client registered", "user_id", client.UserID, "session_id", client.SessionID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			slog.Info("Client unregistered", "user_id", client.UserID, "session_id", client.SessionID)

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.SessionID != event.sessionID {
					continue
				}
				select {
				case client.Send <- event.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishMessage broadcasts one transcript message to the session's
// watchers. Safe to call with no clients connected.
func (h *Hub) PublishMessage(sessionID, role, content string, seq int) {
	payload, err := json.Marshal(TranscriptEvent{
		Type:      "message",
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Seq:       seq,
	})
	if err != nil {
		slog.Error("Failed to marshal transcript event", "error", err)
		return
	}

	h.broadcast <- sessionEvent{sessionID: sessionID, payload: payload}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, userID, sessionID string) *Client {
	client := &Client{
		Hub:       h,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		UserID:    userID,
		SessionID: sessionID,
	}

	h.register <- client
	return client
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Drain and ignore; the feed is one-way.
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
