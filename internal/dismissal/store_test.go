package dismissal

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDayKeyUsesLocalDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	at := time.Date(2026, 10, 22, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "dismissed:7:2026-10-22", dayKey(7, at))
	assert.Equal(t, "dismissed:7:2026-10-23", dayKey(7, at.In(tokyo)))
}

func TestEndOfDay(t *testing.T) {
	at := time.Date(2026, 12, 31, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), endOfDay(at))
}

func unreachable(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestStoreReportsRedisErrors(t *testing.T) {
	s := NewStore(unreachable(t), zap.NewNop())
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

	_, err := s.Dismissed(ctx, 7, now)
	assert.Error(t, err)

	assert.Error(t, s.Dismiss(ctx, 7, "task-1", now))
	assert.Error(t, s.Restore(ctx, 7, "task-1", now))
}
