package relayevents

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stream is the Redis stream every relay instance appends room activity to.
const Stream = "relay_events"

const streamMaxLen = 100_000

const (
	KindRoomCreated  = "room_created"
	KindRoomDeleted  = "room_deleted"
	KindPlayerJoined = "player_joined"
	KindPlayerLeft   = "player_left"
)

type Event struct {
	Kind     string
	RoomCode string
	PlayerID string
	At       time.Time
}

// Nop discards events. It is used when the activity stream is disabled.
type Nop struct{}

func (Nop) Publish(Event) {}

// RedisPublisher queues events in memory and appends them to Stream from a
// single background goroutine, so Publish never blocks the relay.
type RedisPublisher struct {
	rdc   *redis.Client
	queue chan Event
}

func NewRedisPublisher(rdc *redis.Client, queueSize int) *RedisPublisher {
	return &RedisPublisher{
		rdc:   rdc,
		queue: make(chan Event, queueSize),
	}
}

// Publish drops the event when the queue is full.
func (p *RedisPublisher) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case p.queue <- ev:
	default:
		zap.L().Warn("relayevents.queue_full",
			zap.String("kind", ev.Kind), zap.String("room", ev.RoomCode))
	}
}

// Run must be started once; it returns when ctx is done.
func (p *RedisPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.queue:
			wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := p.write(wctx, ev); err != nil {
				zap.L().Warn("relayevents.xadd", zap.String("kind", ev.Kind), zap.Error(err))
			}
			cancel()
		}
	}
}

func (p *RedisPublisher) write(ctx context.Context, ev Event) error {
	return p.rdc.XAdd(ctx, &redis.XAddArgs{
		Stream: Stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: []string{
			"kind", ev.Kind,
			"room", ev.RoomCode,
			"player", ev.PlayerID,
			"at", strconv.FormatInt(ev.At.Unix(), 10),
		},
	}).Err()
}
