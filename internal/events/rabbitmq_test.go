package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu         sync.Mutex
	declares   map[string]int
	declareErr error
	published  []amqp.Publishing
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{declares: make(map[string]int)}
}

func (f *fakeChannel) ExchangeDeclare(name, _ string, _, _, _, _ bool, _ amqp.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.declareErr != nil {
		return f.declareErr
	}
	f.declares[name]++
	return nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) QueueDeclare(string, bool, bool, bool, bool, amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: "q"}, nil
}

func (f *fakeChannel) QueueBind(string, string, string, bool, amqp.Table) error { return nil }

func (f *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return make(chan amqp.Delivery), nil
}

func (f *fakeChannel) Cancel(string, bool) error { return nil }
func (f *fakeChannel) Close() error              { return nil }

func TestRabbitMQ_DeclaresExchangeOncePerTopic(t *testing.T) {
	ch := newFakeChannel()
	r := &RabbitMQ{channel: ch}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := r.Publish(ctx, "promptly.events", []byte(`{}`), map[string]string{"type": PromptLiked})
		require.NoError(t, err)
	}
	_, err := r.Publish(ctx, "other", []byte(`{}`), nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"promptly.events": 1, "other": 1}, ch.declares)
	require.Len(t, ch.published, 6)
	assert.Equal(t, PromptLiked, ch.published[0].Headers["type"])
	assert.NotEmpty(t, ch.published[0].MessageId)
}

func TestRabbitMQ_FailedDeclareIsRetried(t *testing.T) {
	ch := newFakeChannel()
	ch.declareErr = errors.New("channel closed")
	r := &RabbitMQ{channel: ch}

	_, err := r.Publish(context.Background(), "promptly.events", []byte(`{}`), nil)
	require.Error(t, err)
	assert.Empty(t, ch.published)

	ch.declareErr = nil
	_, err = r.Publish(context.Background(), "promptly.events", []byte(`{}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ch.declares["promptly.events"])
}

func TestRabbitMQ_SubscribeStopsWithContext(t *testing.T) {
	r := &RabbitMQ{channel: newFakeChannel()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Subscribe(ctx, "promptly.events", func(context.Context, Message) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
