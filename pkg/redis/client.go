package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"focusboard/pkg/config"
)

// NewRedisClient returns nil when no address is configured; callers treat a nil
// client as "feature disabled".
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

// Connect 创建客户端并 ping 一次；未配置地址时返回 (nil, nil)
func Connect(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	rdb := NewRedisClient(cfg)
	if rdb == nil {
		return nil, nil
	}

	logger.Info("Connecting to Redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		logger.Error("Redis ping failed", zap.Error(err))
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
