package redis_client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to the Redis instance carrying the relay activity
// stream and fails fast when it is unreachable.
func NewRedisClient(host string, port int) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", host, port),
		// one publisher goroutine plus one blocking XREAD
		PoolSize: 4,
	})

	ctx, cancelFunc := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelFunc()
	_, err := rc.Ping(ctx).Result()
	if err != nil {
		err = errors.New("Redis connection failed: " + err.Error())
		zap.L().Error("redis_connect", zap.Error(err))
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}
