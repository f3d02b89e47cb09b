package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FromContext(ctx))

	ctx = WithContext(ctx, "abc")
	assert.Equal(t, "abc", FromContext(ctx))
}

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "abc", FromHeader("abc"))

	generated := FromHeader("")
	assert.Len(t, generated, 36)
	assert.NotEqual(t, generated, FromHeader(""))
	assert.Equal(t, "X-Trace-ID", HeaderName())
}
