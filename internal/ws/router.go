package ws

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownCommand = errors.New("unknown command type")
)

// Command is the closed set of frames a client may send. dispatch switches
// over the concrete types.
type Command interface {
	commandType() string
}

type CreateRoom struct {
	PlayerID string `json:"playerId"`
}

type JoinRoom struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// UpdateState carries the one field the relay understands. Raw is the frame
// exactly as received and is what peers get.
type UpdateState struct {
	PlayerPosition *Position       `json:"playerPosition"`
	Raw            json.RawMessage `json:"-"`
}

type LeaveRoom struct{}

func (CreateRoom) commandType() string  { return TypeCreateRoom }
func (JoinRoom) commandType() string    { return TypeJoinRoom }
func (UpdateState) commandType() string { return TypeUpdateState }
func (LeaveRoom) commandType() string   { return TypeLeaveRoom }

type decodeFunc func(raw []byte) (Command, error)

var decoders = map[string]decodeFunc{
	TypeCreateRoom: decodeAs[CreateRoom],
	TypeJoinRoom:   decodeAs[JoinRoom],
	TypeLeaveRoom:  decodeAs[LeaveRoom],
	TypeUpdateState: func(raw []byte) (Command, error) {
		var cmd UpdateState
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return nil, err
		}
		cmd.Raw = append(json.RawMessage(nil), raw...)
		return cmd, nil
	},
}

func decodeAs[C Command](raw []byte) (Command, error) {
	var cmd C
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ParseCommand decodes one inbound frame.
func ParseCommand(raw []byte) (Command, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	dec, ok := decoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, head.Type)
	}
	cmd, err := dec(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFrame, head.Type, err)
	}
	return cmd, nil
}
