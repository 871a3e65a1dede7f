package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be < pongWait
)

// clientConn is one live transport session. identity, roomCode and open are
// owned by the Hub and only touched under Hub.mu.
type clientConn struct {
	rawConn *websocket.Conn
	send    chan []byte

	identity string
	roomCode string
	open     bool
}

func newClientConn(rawConn *websocket.Conn, sendBuffer int) *clientConn {
	return &clientConn{
		rawConn: rawConn,
		send:    make(chan []byte, sendBuffer),
		open:    true,
	}
}

// assignIdentity keeps an existing identity unless the client asks for a new one.
func (c *clientConn) assignIdentity(requested string) {
	switch {
	case requested != "":
		c.identity = requested
	case c.identity == "":
		c.identity = uuid.NewString()
	}
}

// enqueue hands a frame to the writer without blocking. It reports false when
// the connection is closed or its queue is full.
func (c *clientConn) enqueue(msg []byte) bool {
	if !c.open {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *clientConn) write(mt int, data []byte) error {
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(mt, data) // Text/Binary only
}

// writePump is the only goroutine that writes to rawConn. It exits once the
// hub closes send.
func (c *clientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.rawConn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, msg); err != nil {
				zap.L().Debug("ws.write", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
