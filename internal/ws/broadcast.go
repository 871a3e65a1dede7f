package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// broadcast queues msg for every open member of r except excluding. Must be
// called with h.mu held; enqueue order under the lock is delivery order.
func (h *Hub) broadcast(r *room, msg []byte, excluding *clientConn) {
	for c := range r.members {
		if c == excluding || !c.open {
			continue
		}
		h.deliver(c, msg)
	}
}

// deliver queues one frame. A member that can't keep up is disconnected;
// dropping frames would break per-room ordering for it.
func (h *Hub) deliver(c *clientConn, msg []byte) {
	if c.enqueue(msg) || !c.open {
		return
	}
	zap.L().Warn("ws.slow_consumer", zap.String("player", c.identity), zap.String("room", c.roomCode))
	c.open = false
	if c.rawConn != nil {
		_ = c.rawConn.Close() // reader fails and unregisters
	}
}

func (h *Hub) reply(c *clientConn, v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("ws.encode", zap.Error(err))
		return
	}
	h.deliver(c, msg)
}

func (h *Hub) broadcastJSON(r *room, v any, excluding *clientConn) {
	msg, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("ws.encode", zap.Error(err))
		return
	}
	h.broadcast(r, msg, excluding)
}
