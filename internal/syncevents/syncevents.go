package syncevents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
	"worldrelay/internal/relayevents"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS relay_events (
	stream_id   TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	room_code   TEXT NOT NULL,
	player_id   TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the archive table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// retryDelay is how long tail waits after a failed XREAD or insert.
var retryDelay = time.Second

// Run tails the relay activity stream and archives every entry.
// Replays after a restart are harmless: rows are keyed by stream id.
func Run(ctx context.Context, rdc *redis.Client, db *sql.DB) {
	go tail(ctx, rdc, db)
}

// tail only advances its cursor past a batch once the batch is committed;
// a failed insert re-reads the same entries.
func tail(ctx context.Context, rdc *redis.Client, db *sql.DB) {
	lastID := "0-0"
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// block up to 2 s for new entries
		res, err := rdc.XRead(ctx, &redis.XReadArgs{
			Streams: []string{relayevents.Stream, lastID},
			Count:   100,
			Block:   2000 * time.Millisecond,
		}).Result()
		if err != nil && err != redis.Nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			zap.L().Warn("syncevents.xread", zap.Error(err))
			wait(ctx)
			continue
		}
		if len(res) == 0 || len(res[0].Messages) == 0 {
			continue
		}
		entries := res[0].Messages
		if err := persist(ctx, db, entries); err != nil {
			zap.L().Error("syncevents.persist",
				zap.String("from", entries[0].ID), zap.Int("entries", len(entries)), zap.Error(err))
			wait(ctx)
			continue
		}
		lastID = entries[len(entries)-1].ID
	}
}

func wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(retryDelay):
	}
}

func persist(ctx context.Context, db *sql.DB, msgs []redis.XMessage) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	const ins = `INSERT INTO relay_events (stream_id, kind, room_code, player_id, occurred_at)
	             VALUES ($1, $2, $3, $4, to_timestamp($5))
	             ON CONFLICT (stream_id) DO NOTHING`
	for _, m := range msgs {
		at, err := strconv.ParseInt(field(m, "at"), 10, 64)
		if err != nil {
			zap.L().Warn("syncevents.skip_entry", zap.String("id", m.ID), zap.Error(err))
			continue
		}
		if _, err := tx.ExecContext(ctx, ins, m.ID, field(m, "kind"), field(m, "room"), field(m, "player"), at); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

func field(m redis.XMessage, key string) string {
	s, _ := m.Values[key].(string)
	return s
}
