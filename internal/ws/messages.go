package ws

import "encoding/json"

// Client -> server frame types.
const (
	TypeCreateRoom  = "createRoom"
	TypeJoinRoom    = "joinRoom"
	TypeUpdateState = "updateState"
	TypeLeaveRoom   = "leaveRoom"
)

// Server -> client frame types. Forwarded updateState frames keep their own type.
const (
	TypeRoomCreated  = "roomCreated"
	TypeRoomJoined   = "roomJoined"
	TypeRoomLeft     = "roomLeft"
	TypePlayerJoined = "playerJoined"
	TypePlayerLeft   = "playerLeft"
	TypeError        = "error"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type PlayerState struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

// RoomState is the shared snapshot handed to joiners. Buildings and
// resources are opaque to the relay.
type RoomState struct {
	Players   []PlayerState     `json:"players"`
	Buildings []json.RawMessage `json:"buildings"`
	Resources []json.RawMessage `json:"resources"`
}

func newRoomState() RoomState {
	return RoomState{
		Players:   []PlayerState{},
		Buildings: []json.RawMessage{},
		Resources: []json.RawMessage{},
	}
}

// snapshot copies the slices so later upserts don't show through.
func (s RoomState) snapshot() RoomState {
	out := RoomState{
		Players:   make([]PlayerState, len(s.Players)),
		Buildings: make([]json.RawMessage, len(s.Buildings)),
		Resources: make([]json.RawMessage, len(s.Resources)),
	}
	copy(out.Players, s.Players)
	copy(out.Buildings, s.Buildings)
	copy(out.Resources, s.Resources)
	return out
}

// upsertPlayer replaces the entry with the same id or appends a new one.
func (s *RoomState) upsertPlayer(id string, pos Position) {
	for i := range s.Players {
		if s.Players[i].ID == id {
			s.Players[i].Position = pos
			return
		}
	}
	s.Players = append(s.Players, PlayerState{ID: id, Position: pos})
}

// ──────────────────────────── Server -> client bodies ────────────────────────

type RoomCreatedMsg struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

type RoomJoinedMsg struct {
	Type     string    `json:"type"`
	RoomCode string    `json:"roomCode"`
	State    RoomState `json:"state"`
}

type RoomLeftMsg struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

// PlayerMsg is used for both playerJoined and playerLeft.
type PlayerMsg struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
