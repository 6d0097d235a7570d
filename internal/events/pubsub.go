package events

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// PubSubConfig configures the Google Cloud Pub/Sub backend.
type PubSubConfig struct {
	ProjectID       string
	CredentialsFile string
}

// PubSub publishes to a Cloud Pub/Sub topic. Each subscriber gets its own subscription
// that is removed when it stops.
type PubSub struct {
	client *pubsub.Client
}

// NewPubSub constructs a Pub/Sub client.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("pubsub project id is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(cfg.CredentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}
	return &PubSub{client: client}, nil
}

func (p *PubSub) Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error) {
	t, err := p.ensureTopic(ctx, topic)
	if err != nil {
		return "", err
	}
	result := t.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs})
	return result.Get(ctx)
}

func (p *PubSub) Subscribe(ctx context.Context, topic string, handler Handler) error {
	t, err := p.ensureTopic(ctx, topic)
	if err != nil {
		return err
	}

	name := topic + "-" + uuid.NewString()
	sub, err := p.client.CreateSubscription(ctx, name, pubsub.SubscriptionConfig{Topic: t})
	if err != nil {
		return err
	}
	defer func() {
		_ = sub.Delete(context.WithoutCancel(ctx))
	}()

	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := handler(ctx, Message{ID: msg.ID, Data: msg.Data, Attributes: msg.Attributes}); err != nil {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (p *PubSub) Close() error {
	return p.client.Close()
}

func (p *PubSub) Name() string { return "pubsub" }

func (p *PubSub) ensureTopic(ctx context.Context, name string) (*pubsub.Topic, error) {
	topic := p.client.Topic(name)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return p.client.CreateTopic(ctx, name)
	}
	return topic, nil
}
