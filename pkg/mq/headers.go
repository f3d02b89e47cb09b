package mq

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"focusboard/pkg/otel"
	"focusboard/pkg/trace"
)

const traceIDHeader = "x-trace-id"

// headerCarrier 让 otel propagator 读写 AMQP headers
type headerCarrier amqp091.Table

func (c headerCarrier) Get(key string) string {
	switch v := c[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (c headerCarrier) Set(key, value string) {
	c[key] = value
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// outgoingHeaders 写入 trace_id 和 W3C trace context
func outgoingHeaders(ctx context.Context) amqp091.Table {
	headers := amqp091.Table{}
	if id := trace.FromContext(ctx); id != "" {
		headers[traceIDHeader] = id
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))
	return headers
}

// incomingContext 还原发布方的 trace_id；没有时生成新的
func incomingContext(ctx context.Context, headers amqp091.Table) context.Context {
	if headers == nil {
		headers = amqp091.Table{}
	}
	carrier := headerCarrier(headers)
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)
	return trace.WithContext(ctx, trace.FromHeader(carrier.Get(traceIDHeader)))
}
