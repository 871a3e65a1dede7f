package ws

import (
	"errors"
	"sync"
	"time"
	"worldrelay/internal/relayevents"

	"go.uber.org/zap"
)

type EventPublisher interface {
	Publish(ev relayevents.Event)
}

// Hub owns every connection and room. Each inbound frame is handled start to
// finish under mu, including queueing whatever it fans out, so members of a
// room see that room's frames in the order the hub received them.
type Hub struct {
	mu     sync.Mutex
	conns  *connectionManager
	rooms  *roomManager
	events EventPublisher
}

func NewHub(events EventPublisher) *Hub {
	if events == nil {
		events = relayevents.Nop{}
	}
	return &Hub{
		conns:  newConnectionManager(),
		rooms:  newRoomManager(),
		events: events,
	}
}

func (h *Hub) Register(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns.add(c)
}

// Unregister runs once the transport is gone: the connection leaves its room
// and its writer is told to stop. Safe to call more than once.
func (h *Hub) Unregister(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.conns.remove(c) {
		return
	}
	if c.roomCode != "" {
		h.leave(c)
	}
	c.open = false
	close(c.send)
}

// HandleFrame parses and applies one inbound frame. Frames that don't parse
// are logged and dropped; the connection stays up.
func (h *Hub) HandleFrame(c *clientConn, raw []byte) {
	cmd, err := ParseCommand(raw)
	if err != nil {
		zap.L().Warn("ws.drop_frame", zap.Error(err), zap.Int("bytes", len(raw)))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !c.open {
		return
	}
	h.dispatch(c, cmd)
}

func (h *Hub) dispatch(c *clientConn, cmd Command) {
	switch cmd := cmd.(type) {
	case CreateRoom:
		h.createRoom(c, cmd)
	case JoinRoom:
		h.joinRoom(c, cmd)
	case UpdateState:
		h.updateState(c, cmd)
	case LeaveRoom:
		h.leaveRoom(c)
	default:
		zap.L().Error("ws.unhandled_command", zap.String("type", cmd.commandType()))
	}
}

func (h *Hub) createRoom(c *clientConn, cmd CreateRoom) {
	if c.roomCode != "" {
		h.leave(c)
	}
	c.assignIdentity(cmd.PlayerID)

	r := h.rooms.create()
	h.rooms.add(r, c)

	h.reply(c, RoomCreatedMsg{Type: TypeRoomCreated, RoomCode: r.code})
	h.publish(relayevents.KindRoomCreated, r.code, c.identity)
	zap.L().Info("ws.room_created", zap.String("room", r.code), zap.String("player", c.identity))
}

func (h *Hub) joinRoom(c *clientConn, cmd JoinRoom) {
	r, err := h.rooms.get(cmd.RoomCode)
	if err != nil {
		h.replyError(c, err)
		return
	}

	if c.roomCode != r.code {
		if c.roomCode != "" {
			h.leave(c)
		}
		c.assignIdentity(cmd.PlayerID)
		h.rooms.add(r, c)
		h.broadcastJSON(r, PlayerMsg{Type: TypePlayerJoined, PlayerID: c.identity}, c)
		h.publish(relayevents.KindPlayerJoined, r.code, c.identity)
	} else {
		c.assignIdentity(cmd.PlayerID)
	}

	h.reply(c, RoomJoinedMsg{Type: TypeRoomJoined, RoomCode: r.code, State: r.state.snapshot()})
}

func (h *Hub) updateState(c *clientConn, cmd UpdateState) {
	r, err := h.rooms.get(c.roomCode)
	if err != nil {
		zap.L().Debug("ws.update_outside_room", zap.String("player", c.identity))
		return
	}
	if cmd.PlayerPosition != nil {
		r.state.upsertPlayer(c.identity, *cmd.PlayerPosition)
	}
	h.broadcast(r, cmd.Raw, c)
}

func (h *Hub) leaveRoom(c *clientConn) {
	code := c.roomCode
	if code == "" {
		h.reply(c, ErrorMsg{Type: TypeError, Message: "Not in a room"})
		return
	}
	h.leave(c)
	h.reply(c, RoomLeftMsg{Type: TypeRoomLeft, RoomCode: code})
}

// leave removes c from its room, deleting the room when it empties and
// telling the remaining members otherwise.
func (h *Hub) leave(c *clientConn) {
	r, deleted := h.rooms.remove(c)
	if r == nil {
		return
	}
	h.publish(relayevents.KindPlayerLeft, r.code, c.identity)
	if deleted {
		h.publish(relayevents.KindRoomDeleted, r.code, "")
		zap.L().Info("ws.room_deleted", zap.String("room", r.code))
		return
	}
	h.broadcastJSON(r, PlayerMsg{Type: TypePlayerLeft, PlayerID: c.identity}, nil)
}

func (h *Hub) replyError(c *clientConn, err error) {
	msg := err.Error()
	if errors.Is(err, ErrRoomNotFound) {
		msg = "Room not found"
	}
	h.reply(c, ErrorMsg{Type: TypeError, Message: msg})
}

func (h *Hub) publish(kind, roomCode, playerID string) {
	h.events.Publish(relayevents.Event{
		Kind:     kind,
		RoomCode: roomCode,
		PlayerID: playerID,
		At:       time.Now(),
	})
}
