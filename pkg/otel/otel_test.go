package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"focusboard/pkg/config"
)

func TestInitDisabledInstallsPropagator(t *testing.T) {
	shutdown, err := Init(config.OTelConfig{Enabled: false}, "test", zap.NewNop())
	require.NoError(t, err)
	shutdown()

	assert.Contains(t, GetTextMapPropagator().Fields(), "traceparent")
}

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, defaultSampleRatio, sampleRatio(0))
	assert.Equal(t, defaultSampleRatio, sampleRatio(1.5))
	assert.Equal(t, 0.5, sampleRatio(0.5))
	assert.Equal(t, 1.0, sampleRatio(1))
}

func TestQueryReturnsCallbackError(t *testing.T) {
	boom := errors.New("boom")
	called := false

	err := Query(context.Background(), "SELECT", "tasks", "SELECT 1", func(ctx context.Context) error {
		called = true
		return boom
	})

	assert.True(t, called)
	assert.ErrorIs(t, err, boom)
}

func TestQueryTreatsNoRowsAsSuccessfulSpan(t *testing.T) {
	err := Query(context.Background(), "SELECT", "tasks", "SELECT 1", func(context.Context) error {
		return pgx.ErrNoRows
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
