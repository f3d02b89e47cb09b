package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deduper struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire a dedup lock for handler + key.
// Returns true the first time, false for a duplicate.
func (d *Deduper) AcquireOnce(ctx context.Context, handler, key string) bool {
	dedupKey := fmt.Sprintf("dedup:%s:%s", handler, key)

	ok, err := d.rdb.SetNX(ctx, dedupKey, 1, d.ttl).Result()
	if err != nil {
		// Redis 不可用时不阻止处理
		d.logger.Warn("Redis dedup check failed, allowing processing",
			zap.String("handler", handler),
			zap.String("key", key),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		d.logger.Info("Skipped duplicated event",
			zap.String("handler", handler),
			zap.String("dedup_key", dedupKey),
		)
	}

	return ok
}

// Release drops the dedup lock so a failed attempt can be retried.
func (d *Deduper) Release(ctx context.Context, handler, key string) {
	dedupKey := fmt.Sprintf("dedup:%s:%s", handler, key)
	if err := d.rdb.Del(ctx, dedupKey).Err(); err != nil {
		d.logger.Warn("Failed to release dedup key",
			zap.String("dedup_key", dedupKey),
			zap.Error(err),
		)
	}
}
