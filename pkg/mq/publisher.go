package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"focusboard/pkg/otel"
)

type Publisher struct {
	s *session
	// amqp091 channel 不是并发安全的
	mu sync.Mutex
}

// NewPublisher opens its own connection; exchange "" means DefaultExchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	s, err := openSession(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{s: s}, nil
}

func (p *Publisher) Close() {
	p.s.close()
}

// Publish JSON-encodes payload and sends it persistently with the caller's trace headers.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", routingKey, err)
	}

	ctx, span := otel.StartSpan(ctx, "mq.publish "+routingKey,
		oteltrace.WithSpanKind(oteltrace.SpanKindProducer),
		oteltrace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", p.s.exchange),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
		),
	)
	defer span.End()

	err = p.publish(ctx, p.s.exchange, routingKey, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Headers:      outgoingHeaders(ctx),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, msg amqp091.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.s.channel.PublishWithContext(ctx, exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}
