// Package ratelimit implements a Redis fixed-window request counter.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chatexport:ratelimit:"

func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Limiter allows up to limit hits per key in each window. A nil *Limiter
// allows everything.
type Limiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func New(rdb *redis.Client, limit int64, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow counts one hit for id and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, id int64) (bool, error) {
	if l == nil || l.limit <= 0 {
		return true, nil
	}
	key := keyPrefix + strconv.FormatInt(id, 10)

	// The counter and its TTL are set in one transaction; ExpireNX keeps
	// the window anchored at the first hit.
	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return true, fmt.Errorf("count hit %s: %w", key, err)
	}
	return incr.Val() <= l.limit, nil
}
