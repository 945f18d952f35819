package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub) (*websocket.Conn, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, srv
}

func (h *Hub) roomSize(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[sessionID])
}

func TestJoinAndPublish(t *testing.T) {
	hub := NewHub()
	conn, srv := dialTestHub(t, hub)
	defer srv.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join", SessionID: "sess"}))
	require.Eventually(t, func() bool { return hub.roomSize("sess") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("sess")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "files_changed", evt.Event)
	assert.Equal(t, "sess", evt.SessionID)
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	conn, srv := dialTestHub(t, hub)
	defer srv.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join", SessionID: "sess"}))
	require.Eventually(t, func() bool { return hub.roomSize("sess") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "leave", SessionID: "sess"}))
	require.Eventually(t, func() bool { return hub.roomSize("sess") == 0 }, time.Second, 10*time.Millisecond)

	hub.Publish("sess")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)))
	var evt Event
	assert.Error(t, conn.ReadJSON(&evt))
}

func TestJoinSwitchesRoom(t *testing.T) {
	hub := NewHub()
	conn, srv := dialTestHub(t, hub)
	defer srv.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join", SessionID: "a"}))
	require.Eventually(t, func() bool { return hub.roomSize("a") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join", SessionID: "b"}))
	require.Eventually(t, func() bool { return hub.roomSize("b") == 1 }, time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.roomSize("a"))

	hub.Publish("b")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var evt Event
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "b", evt.SessionID)
}

func TestPublishEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish("nobody-home")
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub()
	conn, srv := dialTestHub(t, hub)
	defer srv.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join", SessionID: "sess"}))
	require.Eventually(t, func() bool { return hub.roomSize("sess") == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
