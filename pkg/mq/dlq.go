package mq

import (
	"context"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// DeadLetterQueueName 死信队列命名：<routing_key>.dlq
func DeadLetterQueueName(routingKey string) string {
	return routingKey + ".dlq"
}

// PublishToDLQ publishes a raw message body to the dead letter exchange, keeping
// the original headers and recording why and where it failed.
func (p *Publisher) PublishToDLQ(ctx context.Context, routingKey string, payload []byte, originalError, service string) error {
	headers := outgoingHeaders(ctx)
	headers["x-original-error"] = originalError
	headers["x-failed-service"] = service
	headers["x-failed-at"] = time.Now().UTC().Format(time.RFC3339)

	return p.publish(ctx, DeadLetterExchange(p.s.exchange), routingKey, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp091.Persistent,
		Headers:      headers,
	})
}
