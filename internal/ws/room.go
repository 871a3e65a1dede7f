package ws

import (
	"errors"
	"math/rand/v2"
)

const (
	roomCodeLen      = 6
	roomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var ErrRoomNotFound = errors.New("room not found")

type room struct {
	code    string
	members map[*clientConn]struct{}
	state   RoomState
}

func newRoom(code string) *room {
	return &room{
		code:    code,
		members: map[*clientConn]struct{}{},
		state:   newRoomState(),
	}
}

// roomManager holds the active rooms. A room exists only while it has members.
type roomManager struct {
	rooms   map[string]*room
	newCode func() string
}

func newRoomManager() *roomManager {
	return &roomManager{
		rooms:   make(map[string]*room),
		newCode: randomRoomCode,
	}
}

// create registers an empty room under a code no active room is using.
func (m *roomManager) create() *room {
	code := m.newCode()
	for {
		if _, taken := m.rooms[code]; !taken {
			break
		}
		code = m.newCode()
	}
	r := newRoom(code)
	m.rooms[code] = r
	return r
}

func (m *roomManager) get(code string) (*room, error) {
	r, ok := m.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (m *roomManager) add(r *room, c *clientConn) {
	r.members[c] = struct{}{}
	c.roomCode = r.code
}

// remove takes c out of its room and drops the room once it is empty.
// It returns the room c was in and whether that room was deleted.
func (m *roomManager) remove(c *clientConn) (*room, bool) {
	r, ok := m.rooms[c.roomCode]
	c.roomCode = ""
	if !ok {
		return nil, false
	}
	delete(r.members, c)
	if len(r.members) > 0 {
		return r, false
	}
	delete(m.rooms, r.code)
	return r, true
}

func randomRoomCode() string {
	b := make([]byte, roomCodeLen)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
	}
	return string(b)
}
