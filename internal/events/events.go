// Package events publishes engagement changes after they commit. Delivery is best
// effort: a failed publish never undoes the mutation that produced it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"promptly/internal/config"
	"promptly/internal/middleware"
	"promptly/internal/observability"
)

// Event types.
const (
	PromptCreated      = "prompt.created"
	PromptLiked        = "prompt.liked"
	PromptUnliked      = "prompt.unliked"
	PromptVoted        = "prompt.voted"
	PromptBookmarked   = "prompt.bookmarked"
	PromptUnbookmarked = "prompt.unbookmarked"
)

// Event is the envelope carried on the wire.
type Event struct {
	Type       string          `json:"type"`
	PromptID   uint            `json:"prompt_id"`
	UserID     uint            `json:"user_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Message is a broker-agnostic delivery.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a delivery. Returning an error nacks it where the broker supports that.
type Handler func(ctx context.Context, msg Message) error

// Backend is a broker. Subscribe blocks until ctx is done or the broker fails.
type Backend interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
	Name() string
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, eventType string, promptID, userID uint, data any)
}

// Bus encodes events and hands them to a backend on a single topic.
type Bus struct {
	backend Backend
	topic   string
	now     func() time.Time
}

// NewBus wraps backend. An empty topic falls back to "promptly.events".
func NewBus(backend Backend, topic string) *Bus {
	if topic == "" {
		topic = "promptly.events"
	}
	return &Bus{backend: backend, topic: topic, now: time.Now}
}

// New builds the bus selected by EVENTS_BACKEND. "none" gets an in-process backend so a
// single instance still feeds its own websocket clients.
func New(ctx context.Context, cfg *config.Config, rdb RedisClient) (*Bus, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.EventsBackend {
	case "", "none":
		backend = NewLocal()
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("events backend redis requires a redis client")
		}
		backend = NewRedis(rdb)
	case "rabbitmq":
		backend, err = NewRabbitMQ(RabbitMQConfig{URL: cfg.RabbitMQURL})
	case "pubsub":
		backend, err = NewPubSub(ctx, PubSubConfig{
			ProjectID:       cfg.PubSubProjectID,
			CredentialsFile: cfg.PubSubCredentialsFile,
		})
	default:
		return nil, fmt.Errorf("unsupported events backend %q", cfg.EventsBackend)
	}
	if err != nil {
		return nil, err
	}
	return NewBus(backend, cfg.EventsTopic), nil
}

// Publish sends one event. Failures are logged and counted, never returned.
func (b *Bus) Publish(ctx context.Context, eventType string, promptID, userID uint, data any) {
	if b == nil || b.backend == nil {
		return
	}

	evt := Event{Type: eventType, PromptID: promptID, UserID: userID, OccurredAt: b.now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			middleware.Logger.ErrorContext(ctx, "event payload encode failed", "type", eventType, "error", err)
			return
		}
		evt.Data = raw
	}

	body, err := json.Marshal(evt)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "event encode failed", "type", eventType, "error", err)
		return
	}

	// Detached so a cancelled request still publishes what it committed.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	_, err = b.backend.Publish(pubCtx, b.topic, body, map[string]string{"type": eventType})
	observability.EventsPublished.WithLabelValues(b.backend.Name(), eventType, observability.Result(err)).Inc()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "event publish failed",
			"type", eventType, "prompt_id", promptID, "backend", b.backend.Name(), "error", err)
	}
}

// Subscribe decodes deliveries on the bus topic and passes them to fn. Undecodable
// messages are dropped.
func (b *Bus) Subscribe(ctx context.Context, fn func(Event)) error {
	return b.backend.Subscribe(ctx, b.topic, func(ctx context.Context, msg Message) error {
		var evt Event
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			middleware.Logger.WarnContext(ctx, "dropping malformed event", "id", msg.ID, "error", err)
			return nil
		}
		fn(evt)
		return nil
	})
}

// Backend returns the underlying broker name.
func (b *Bus) Backend() string { return b.backend.Name() }

func (b *Bus) Close() error { return b.backend.Close() }
