package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConfig configures the RabbitMQ backend.
type RabbitMQConfig struct {
	URL           string
	Durable       bool
	PrefetchCount int
}

// rabbitChannel is the part of *amqp.Channel the backend uses.
type rabbitChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
	Close() error
}

// RabbitMQ publishes to a fanout exchange named after the topic. Each subscriber binds
// its own exclusive queue so every instance sees every event. Exchanges are declared
// once per topic for the life of the channel.
type RabbitMQ struct {
	conn     *amqp.Connection
	channel  rabbitChannel
	durable  bool
	declared sync.Map
}

// NewRabbitMQ dials the broker and opens a channel.
func NewRabbitMQ(cfg RabbitMQConfig) (*RabbitMQ, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &RabbitMQ{conn: conn, channel: ch, durable: cfg.Durable}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error) {
	if err := r.declareExchange(topic); err != nil {
		return "", err
	}

	headers := amqp.Table{}
	for key, value := range attrs {
		headers[key] = value
	}

	messageID := uuid.NewString()
	err := r.channel.PublishWithContext(ctx, topic, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   messageID,
		Headers:     headers,
		Body:        data,
	})
	if err != nil {
		return "", err
	}
	return messageID, nil
}

func (r *RabbitMQ) Subscribe(ctx context.Context, topic string, handler Handler) error {
	if err := r.declareExchange(topic); err != nil {
		return err
	}

	q, err := r.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return err
	}
	if err := r.channel.QueueBind(q.Name, "", topic, false, nil); err != nil {
		return err
	}

	consumerTag := "feed-" + uuid.NewString()
	deliveries, err := r.channel.Consume(q.Name, consumerTag, false, true, false, false, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.channel.Cancel(consumerTag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			msg := Message{
				ID:         delivery.MessageId,
				Data:       delivery.Body,
				Attributes: headersToAttributes(delivery.Headers),
			}
			if err := handler(ctx, msg); err != nil {
				_ = delivery.Nack(false, false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *RabbitMQ) Name() string { return "rabbitmq" }

func (r *RabbitMQ) declareExchange(name string) error {
	if _, ok := r.declared.Load(name); ok {
		return nil
	}
	if err := r.channel.ExchangeDeclare(name, amqp.ExchangeFanout, r.durable, !r.durable, false, false, nil); err != nil {
		return err
	}
	r.declared.Store(name, struct{}{})
	return nil
}

func headersToAttributes(headers amqp.Table) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(headers))
	for key, value := range headers {
		switch typed := value.(type) {
		case string:
			attrs[key] = typed
		case []byte:
			attrs[key] = string(typed)
		default:
			attrs[key] = fmt.Sprint(value)
		}
	}
	return attrs
}
