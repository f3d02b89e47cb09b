package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"focusboard/pkg/logger"
	"focusboard/pkg/otel"
	"focusboard/pkg/util"
)

type MessageHandler func(ctx context.Context, data json.RawMessage) error

// DeadLetterSink receives messages whose handler failed with a non-retryable error.
type DeadLetterSink interface {
	PublishToDLQ(ctx context.Context, routingKey string, payload []byte, originalError, service string) error
}

// ConsumerConfig 一个队列绑定一个 routing key
type ConsumerConfig struct {
	URL        string
	Exchange   string
	Queue      string
	RoutingKey string
	// Prefetch 未 ack 的消息上限，<=0 时为 1
	Prefetch int
}

type Consumer struct {
	s          *session
	queue      amqp091.Queue
	routingKey string
	handler    MessageHandler
	dlq        DeadLetterSink
	service    string
	logger     *zap.Logger
}

// NewConsumer declares the queue and its dead letter queue, then binds both.
func NewConsumer(cfg ConsumerConfig, log *zap.Logger) (*Consumer, error) {
	if cfg.Queue == "" || cfg.RoutingKey == "" {
		return nil, errors.New("consumer needs a queue and a routing key")
	}

	s, err := openSession(cfg.URL, cfg.Exchange)
	if err != nil {
		return nil, err
	}

	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := s.channel.Qos(prefetch, 0, false); err != nil {
		s.close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	q, err := declareBoundQueue(s.channel, cfg.Queue, cfg.RoutingKey, s.exchange)
	if err != nil {
		s.close()
		return nil, err
	}
	if _, err := declareBoundQueue(s.channel, DeadLetterQueueName(cfg.RoutingKey), cfg.RoutingKey, DeadLetterExchange(s.exchange)); err != nil {
		s.close()
		return nil, err
	}

	log.Info("Consumer initialized",
		zap.String("routing_key", cfg.RoutingKey),
		zap.String("queue", q.Name),
		zap.String("exchange", s.exchange),
		zap.Int("prefetch", prefetch),
	)

	return &Consumer{
		s:          s,
		queue:      q,
		routingKey: cfg.RoutingKey,
		logger:     log,
	}, nil
}

func (c *Consumer) SetHandler(h MessageHandler) {
	c.handler = h
}

// SetDeadLetter routes non-retryable failures to sink instead of requeueing them.
func (c *Consumer) SetDeadLetter(sink DeadLetterSink, service string) {
	c.dlq = sink
	c.service = service
}

func (c *Consumer) Close() {
	c.s.close()
}

// StartConsuming blocks until ctx is done or the delivery channel closes.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.handler == nil {
		return errors.New("consumer handler not set")
	}

	deliveries, err := c.s.channel.Consume(
		c.queue.Name,
		"",
		false, // 手动ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started consuming messages",
		zap.String("routing_key", c.routingKey),
		zap.String("queue", c.queue.Name),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for %s", c.queue.Name)
			}
			c.handle(ctx, msg)
		}
	}
}

// handle 保证每条消息都会被 ack 或 nack
func (c *Consumer) handle(ctx context.Context, msg amqp091.Delivery) {
	ctx = incomingContext(ctx, msg.Headers)
	ctx, span := otel.StartSpan(ctx, "mq.consume "+c.routingKey,
		oteltrace.WithSpanKind(oteltrace.SpanKindConsumer),
		oteltrace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", c.queue.Name),
			attribute.Bool("messaging.rabbitmq.redelivered", msg.Redelivered),
		),
	)
	defer span.End()

	log := logger.WithTrace(ctx, c.logger).With(
		zap.String("routing_key", c.routingKey),
		zap.String("queue", c.queue.Name),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Handler panic recovered", zap.Any("panic", r))
			span.SetStatus(codes.Error, "panic")
			if err := msg.Nack(false, false); err != nil {
				log.Error("Failed to nack message after panic", zap.Error(err))
			}
		}
	}()

	log.Debug("Received message", zap.Int("message_size", len(msg.Body)), zap.Bool("redelivered", msg.Redelivered))

	err := c.handler(ctx, msg.Body)
	if err == nil {
		if err := msg.Ack(false); err != nil {
			log.Error("Failed to ack message", zap.Error(err))
		}
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	retryable, errType := util.IsRetryableError(err)
	log.Error("Handler error",
		zap.String("error_type", errType),
		zap.Bool("retryable", retryable),
		zap.Error(err),
	)

	if retryable || c.dlq == nil {
		// 可重试 → 重新入队，让 MQ 重试
		if err := msg.Nack(false, retryable); err != nil {
			log.Error("Failed to nack message", zap.Error(err))
		}
		return
	}

	if dlqErr := c.dlq.PublishToDLQ(ctx, c.routingKey, msg.Body, err.Error(), c.service); dlqErr != nil {
		log.Error("Failed to publish to DLQ, requeueing", zap.Error(dlqErr))
		_ = msg.Nack(false, true)
		return
	}
	log.Warn("Message moved to DLQ", zap.String("dlq", DeadLetterQueueName(c.routingKey)))
	if err := msg.Ack(false); err != nil {
		log.Error("Failed to ack message after DLQ", zap.Error(err))
	}
}
