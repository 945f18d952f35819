package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/qrdrop/qrdrop/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

// clientMessage is what a connected viewer sends to subscribe to a session.
type clientMessage struct {
	Action    string `json:"action"` // "join" or "leave"
	SessionID string `json:"sessionId"`
}

// Event is pushed to every viewer subscribed to a session.
type Event struct {
	Event     string `json:"event"`
	SessionID string `json:"sessionId"`
}

type client struct {
	conn *websocket.Conn
	send chan Event

	mu        sync.Mutex
	sessionID string
}

// Hub tracks websocket viewers grouped by session id and broadcasts
// files-changed events to them. It implements store.Notifier. Publish never
// blocks: a viewer whose send buffer is full is dropped.
type Hub struct {
	mu      sync.Mutex
	rooms   map[string]map[*client]bool
	clients map[*client]bool
	closed  bool

	upgrader websocket.Upgrader
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:   map[string]map[*client]bool{},
		clients: map[*client]bool{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS policy is enforced at the router; the upgrade itself
			// accepts any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and runs the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("websocket upgrade failed: %v", err)
		}
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = true
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

// Publish broadcasts a files-changed event to every viewer of the session.
// Fire-and-forget; safe to call from request handlers.
func (h *Hub) Publish(sessionID string) {
	evt := Event{Event: "files_changed", SessionID: sessionID}

	// Sends happen under the hub lock, as does closing a client's send
	// channel in drop, so a send can never race a close.
	h.mu.Lock()
	var dropped []*client
	for c := range h.rooms[sessionID] {
		select {
		case c.send <- evt:
		default:
			// Slow consumer; drop it rather than block the publisher.
			dropped = append(dropped, c)
		}
	}
	h.mu.Unlock()

	for _, c := range dropped {
		h.drop(c)
	}
}

// Close disconnects every viewer and refuses new ones. Called at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.drop(c)
	}
}

func (h *Hub) readLoop(c *client) {
	defer h.drop(c)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.SessionID == "" {
			continue
		}
		switch msg.Action {
		case "join":
			h.join(c, msg.SessionID)
		case "leave":
			h.leave(c, msg.SessionID)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case evt, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// join subscribes the client to a session room, leaving any previous room;
// a viewer watches one session at a time.
func (h *Hub) join(c *client, sessionID string) {
	c.mu.Lock()
	prev := c.sessionID
	c.sessionID = sessionID
	c.mu.Unlock()

	h.mu.Lock()
	// A client dropped for slow consumption may still issue a join before
	// its read loop notices; never re-register it.
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	if prev != "" {
		h.removeFromRoomLocked(c, prev)
	}
	room := h.rooms[sessionID]
	if room == nil {
		room = map[*client]bool{}
		h.rooms[sessionID] = room
	}
	room[c] = true
	h.mu.Unlock()
}

func (h *Hub) leave(c *client, sessionID string) {
	c.mu.Lock()
	if c.sessionID == sessionID {
		c.sessionID = ""
	}
	c.mu.Unlock()

	h.mu.Lock()
	h.removeFromRoomLocked(c, sessionID)
	h.mu.Unlock()
}

// drop unregisters the client everywhere and closes its send channel exactly
// once (guarded by presence in the clients set).
func (h *Hub) drop(c *client) {
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	h.mu.Lock()
	_, registered := h.clients[c]
	delete(h.clients, c)
	if sessionID != "" {
		h.removeFromRoomLocked(c, sessionID)
	}
	if registered {
		close(c.send)
	}
	h.mu.Unlock()

	_ = c.conn.Close()
}

func (h *Hub) removeFromRoomLocked(c *client, sessionID string) {
	if room, ok := h.rooms[sessionID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}
