package mq

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// DefaultExchange 未配置 mq.exchange 时使用
const DefaultExchange = "focusboard.events"

// DeadLetterExchange 每个 topic 交换机配一个同名 .dlq 交换机
func DeadLetterExchange(exchange string) string {
	return exchange + ".dlq"
}

// session 一条连接 + 一个 channel，打开时声明主交换机和死信交换机
type session struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func openSession(url, exchange string) (*session, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	s := &session{conn: conn, channel: ch, exchange: exchange}
	for _, name := range []string{exchange, DeadLetterExchange(exchange)} {
		if err := declareTopic(ch, name); err != nil {
			s.close()
			return nil, fmt.Errorf("failed to declare exchange %s: %w", name, err)
		}
	}
	return s, nil
}

func declareTopic(ch *amqp091.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
}

// declareBoundQueue declares a durable queue and binds it to exchange.
func declareBoundQueue(ch *amqp091.Channel, queue, routingKey, exchange string) (amqp091.Queue, error) {
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind queue %s: %w", queue, err)
	}
	return q, nil
}

func (s *session) close() {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
}
