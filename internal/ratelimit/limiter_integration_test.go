//go:build integration

package ratelimit

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"
)

func TestIntegration_FixedWindow(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer rdb.Close()

	id := time.Now().UnixNano()
	l := New(rdb, 2, time.Second)

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, id)
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if ok != want {
			t.Errorf("hit %d = %v, want %v", i, ok, want)
		}
		ttl, err := rdb.TTL(ctx, keyPrefix+strconv.FormatInt(id, 10)).Result()
		if err != nil {
			t.Fatalf("ttl after hit %d: %v", i, err)
		}
		if ttl <= 0 || ttl > time.Second {
			t.Errorf("ttl after hit %d = %v, want within (0, 1s]", i, ttl)
		}
	}

	time.Sleep(1100 * time.Millisecond)
	if ok, _ := l.Allow(ctx, id); !ok {
		t.Error("window did not reset")
	}
}
