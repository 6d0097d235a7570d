package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"promptly/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	mu       sync.Mutex
	topics   []string
	payloads [][]byte
	err      error
}

func (r *recordingBackend) Publish(_ context.Context, topic string, data []byte, _ map[string]string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	r.payloads = append(r.payloads, data)
	return "1", r.err
}

func (r *recordingBackend) Subscribe(ctx context.Context, _ string, _ Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (r *recordingBackend) Close() error { return nil }
func (r *recordingBackend) Name() string { return "recording" }

func TestBus_PublishEncodesEnvelope(t *testing.T) {
	backend := &recordingBackend{}
	bus := NewBus(backend, "")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	bus.now = func() time.Time { return fixed }

	bus.Publish(context.Background(), PromptLiked, 7, 3, map[string]int{"like_count": 1})

	require.Len(t, backend.payloads, 1)
	assert.Equal(t, "promptly.events", backend.topics[0])

	var evt Event
	require.NoError(t, json.Unmarshal(backend.payloads[0], &evt))
	assert.Equal(t, PromptLiked, evt.Type)
	assert.Equal(t, uint(7), evt.PromptID)
	assert.Equal(t, uint(3), evt.UserID)
	assert.True(t, fixed.Equal(evt.OccurredAt))
	assert.JSONEq(t, `{"like_count":1}`, string(evt.Data))
}

func TestBus_PublishSwallowsBackendErrors(t *testing.T) {
	backend := &recordingBackend{err: errors.New("broker down")}
	bus := NewBus(backend, "t")

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), PromptVoted, 1, 1, nil)
	})
	assert.Len(t, backend.payloads, 1)
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), PromptCreated, 1, 1, nil)
	})
}

func TestBus_LocalRoundTrip(t *testing.T) {
	local := NewLocal()
	bus := NewBus(local, "feed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 1)
	go func() { _ = bus.Subscribe(ctx, func(e Event) { got <- e }) }()
	require.Eventually(t, func() bool { return local.Subscribers("feed") == 1 }, time.Second, 5*time.Millisecond)

	bus.Publish(ctx, PromptBookmarked, 9, 2, nil)

	select {
	case evt := <-got:
		assert.Equal(t, PromptBookmarked, evt.Type)
		assert.Equal(t, uint(9), evt.PromptID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	require.Eventually(t, func() bool { return local.Subscribers("feed") == 0 }, time.Second, 5*time.Millisecond)
}

func TestLocal_FullSubscriberDoesNotBlockPublish(t *testing.T) {
	local := NewLocal()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	block := make(chan struct{})
	go func() {
		_ = local.Subscribe(ctx, "t", func(context.Context, Message) error {
			<-block
			return nil
		})
	}()
	require.Eventually(t, func() bool { return local.Subscribers("t") == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			_, _ = local.Publish(ctx, "t", []byte("x"), nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	close(block)
}

func TestRedis_RoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	bus := NewBus(NewRedis(rdb), "promptly.events")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Event, 16)
	go func() { _ = bus.Subscribe(ctx, func(e Event) { got <- e }) }()

	// Pub/sub drops messages sent before the subscription lands, so keep publishing.
	require.Eventually(t, func() bool {
		bus.Publish(ctx, PromptCreated, 4, 1, nil)
		select {
		case evt := <-got:
			return evt.Type == PromptCreated && evt.PromptID == 4
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNew_SelectsBackend(t *testing.T) {
	bus, err := New(context.Background(), &config.Config{EventsBackend: "none"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "local", bus.Backend())

	_, err = New(context.Background(), &config.Config{EventsBackend: "redis"}, nil)
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{EventsBackend: "kafka"}, nil)
	assert.Error(t, err)

	_, err = NewRabbitMQ(RabbitMQConfig{})
	assert.Error(t, err)

	_, err = NewPubSub(context.Background(), PubSubConfig{})
	assert.Error(t, err)
}
