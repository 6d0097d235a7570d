package events

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
)

// Local fans messages out to subscribers in the same process.
type Local struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Message]struct{}
	nextID atomic.Uint64
	closed bool
}

// NewLocal returns an in-process backend.
func NewLocal() *Local {
	return &Local{subs: make(map[string]map[chan Message]struct{})}
}

// Publish never blocks: a subscriber whose buffer is full misses the message.
func (l *Local) Publish(_ context.Context, topic string, data []byte, attrs map[string]string) (string, error) {
	id := strconv.FormatUint(l.nextID.Add(1), 10)
	msg := Message{ID: id, Data: data, Attributes: attrs}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for ch := range l.subs[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
	return id, nil
}

func (l *Local) Subscribe(ctx context.Context, topic string, handler Handler) error {
	ch := make(chan Message, 64)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	if l.subs[topic] == nil {
		l.subs[topic] = make(map[chan Message]struct{})
	}
	l.subs[topic][ch] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.subs[topic], ch)
		l.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-ch:
			_ = handler(ctx, msg)
		}
	}
}

// Subscribers reports how many subscriptions topic has.
func (l *Local) Subscribers(topic string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs[topic])
}

func (l *Local) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}

func (l *Local) Name() string { return "local" }
