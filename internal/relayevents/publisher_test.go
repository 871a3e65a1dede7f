package relayevents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedArgs(ev Event) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: Stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: []string{
			"kind", ev.Kind,
			"room", ev.RoomCode,
			"player", ev.PlayerID,
			"at", "1760486400",
		},
	}
}

func TestWriteAppendsToStream(t *testing.T) {
	db, mock := redismock.NewClientMock()
	p := NewRedisPublisher(db, 4)

	ev := Event{Kind: KindPlayerJoined, RoomCode: "AB12CD", PlayerID: "bob", At: time.Unix(1760486400, 0)}
	mock.ExpectXAdd(expectedArgs(ev)).SetVal("1760486400000-0")

	require.NoError(t, p.write(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteSurfacesRedisErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	p := NewRedisPublisher(db, 4)

	ev := Event{Kind: KindRoomDeleted, RoomCode: "AB12CD", At: time.Unix(1760486400, 0)}
	mock.ExpectXAdd(expectedArgs(ev)).SetErr(errors.New("READONLY"))

	assert.Error(t, p.write(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishNeverBlocks(t *testing.T) {
	db, _ := redismock.NewClientMock()
	p := NewRedisPublisher(db, 1)

	p.Publish(Event{Kind: KindRoomCreated, RoomCode: "AAAAAA"})
	p.Publish(Event{Kind: KindRoomCreated, RoomCode: "BBBBBB"}) // dropped

	require.Len(t, p.queue, 1)
	ev := <-p.queue
	assert.Equal(t, "AAAAAA", ev.RoomCode)
	assert.False(t, ev.At.IsZero(), "publish stamps the event time")
}

func TestRunStopsWithContext(t *testing.T) {
	db, _ := redismock.NewClientMock()
	p := NewRedisPublisher(db, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Nop{}.Publish(Event{Kind: KindRoomCreated}) })
}
