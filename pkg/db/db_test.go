package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"focusboard/pkg/config"
)

func TestPoolConfigAppliesSizes(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "focus", Password: "secret", Name: "board",
		MaxConns: 12, MinConns: 3, SlowQueryMS: 50,
	}

	poolCfg, err := PoolConfig(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int32(12), poolCfg.MaxConns)
	assert.Equal(t, int32(3), poolCfg.MinConns)
	assert.Equal(t, "db", poolCfg.ConnConfig.Host)
	assert.Equal(t, "board", poolCfg.ConnConfig.Database)

	tracer, ok := poolCfg.ConnConfig.Tracer.(*SlowQueryTracer)
	require.True(t, ok)
	assert.Equal(t, 50*time.Millisecond, tracer.slowThreshold)
}

func TestSlowQueryTracerLogsOnlySlowQueries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tracer := NewSlowQueryTracer(zap.New(core), 10*time.Millisecond)

	fast := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	tracer.TraceQueryEnd(fast, nil, pgx.TraceQueryEndData{})
	assert.Equal(t, 0, logs.Len())

	slow := context.WithValue(context.Background(), queryStartKey{}, queryStart{
		at:  time.Now().Add(-time.Second),
		sql: "SELECT * FROM tasks",
	})
	tracer.TraceQueryEnd(slow, nil, pgx.TraceQueryEndData{})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "slow-query", entry.Message)
	assert.Equal(t, "SELECT * FROM tasks", entry.ContextMap()["sql"])
}

func TestSlowQueryTracerIgnoresUntrackedContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewSlowQueryTracer(zap.New(core), 0).TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	assert.Equal(t, 0, logs.Len())
}

func TestTruncateSQL(t *testing.T) {
	assert.Equal(t, "unknown", truncateSQL(""))
	assert.Equal(t, "SELECT 1", truncateSQL("SELECT 1"))

	long := strings.Repeat("x", maxLoggedSQL+10)
	assert.Equal(t, strings.Repeat("x", maxLoggedSQL)+"...", truncateSQL(long))
}
