package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandVariants(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"type":"createRoom","playerId":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, CreateRoom{PlayerID: "alice"}, cmd)

	cmd, err = ParseCommand([]byte(`{"type":"createRoom"}`))
	require.NoError(t, err)
	assert.Equal(t, CreateRoom{}, cmd)

	cmd, err = ParseCommand([]byte(`{"type":"joinRoom","roomCode":"AB12CD","playerId":"bob"}`))
	require.NoError(t, err)
	assert.Equal(t, JoinRoom{RoomCode: "AB12CD", PlayerID: "bob"}, cmd)

	cmd, err = ParseCommand([]byte(`{"type":"leaveRoom"}`))
	require.NoError(t, err)
	assert.Equal(t, LeaveRoom{}, cmd)
}

func TestParseUpdateStateKeepsRawFrame(t *testing.T) {
	raw := []byte(`{"type":"updateState","playerPosition":{"x":1,"y":2.5,"z":-3},"buildings":[{"kind":"hut"}]}`)

	cmd, err := ParseCommand(raw)
	require.NoError(t, err)

	upd, ok := cmd.(UpdateState)
	require.True(t, ok)
	require.NotNil(t, upd.PlayerPosition)
	assert.Equal(t, Position{X: 1, Y: 2.5, Z: -3}, *upd.PlayerPosition)
	assert.Equal(t, string(raw), string(upd.Raw))

	// the parsed frame must not alias the read buffer
	raw[0] = 'X'
	assert.Equal(t, byte('{'), upd.Raw[0])
}

func TestParseUpdateStateWithoutPosition(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"type":"updateState","resources":[]}`))
	require.NoError(t, err)
	assert.Nil(t, cmd.(UpdateState).PlayerPosition)
}

func TestParseCommandErrors(t *testing.T) {
	cases := map[string]struct {
		frame string
		want  error
	}{
		"not json":          {`hello`, ErrMalformedFrame},
		"array":             {`[1,2]`, ErrMalformedFrame},
		"truncated":         {`{"type":"createRoom"`, ErrMalformedFrame},
		"missing type":      {`{"playerId":"x"}`, ErrUnknownCommand},
		"unknown type":      {`{"type":"launchRocket"}`, ErrUnknownCommand},
		"wrong type case":   {`{"type":"CreateRoom"}`, ErrUnknownCommand},
		"numeric player id": {`{"type":"createRoom","playerId":7}`, ErrMalformedFrame},
		"bad position":      {`{"type":"updateState","playerPosition":"here"}`, ErrMalformedFrame},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCommand([]byte(tc.frame))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
