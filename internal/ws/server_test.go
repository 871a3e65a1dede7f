package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelayServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewWsServer(NewHub(nil), 64, 65536).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestRelayOverWebSocket(t *testing.T) {
	_, url := newRelayServer(t)
	a := dial(t, url)
	b := dial(t, url)

	writeFrame(t, a, `{"type":"createRoom","playerId":"alice"}`)
	created := readFrame(t, a)
	require.Equal(t, TypeRoomCreated, created["type"])
	code := created["roomCode"].(string)
	assert.Regexp(t, roomCodePattern, code)

	writeFrame(t, b, `{"type":"joinRoom","roomCode":"`+code+`","playerId":"bob"}`)
	assert.Equal(t, map[string]any{"type": TypePlayerJoined, "playerId": "bob"}, readFrame(t, a))
	joined := readFrame(t, b)
	assert.Equal(t, TypeRoomJoined, joined["type"])

	// garbage is dropped without closing the socket
	writeFrame(t, b, `{{{`)
	update := `{"type":"updateState","playerPosition":{"x":1,"y":2,"z":3},"note":"hi"}`
	writeFrame(t, b, update)

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := a.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, update, string(data))

	require.NoError(t, b.Close())
	assert.Equal(t, map[string]any{"type": TypePlayerLeft, "playerId": "bob"}, readFrame(t, a))
}

func TestJoinUnknownRoomOverWebSocket(t *testing.T) {
	_, url := newRelayServer(t)
	c := dial(t, url)

	writeFrame(t, c, `{"type":"joinRoom","roomCode":"NOPE00"}`)
	assert.Equal(t, map[string]any{"type": TypeError, "message": "Room not found"}, readFrame(t, c))

	writeFrame(t, c, `{"type":"createRoom"}`)
	assert.Equal(t, TypeRoomCreated, readFrame(t, c)["type"])
}
