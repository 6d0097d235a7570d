package testutil

import (
	"context"
	"sync"
)

// PublishedEvent is one call to RecordingPublisher.Publish.
type PublishedEvent struct {
	Type     string
	PromptID uint
	UserID   uint
	Data     any
}

// RecordingPublisher collects published events.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func (r *RecordingPublisher) Publish(_ context.Context, eventType string, promptID, userID uint, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, PublishedEvent{Type: eventType, PromptID: promptID, UserID: userID, Data: data})
}

// Events returns a copy of everything published so far.
func (r *RecordingPublisher) Events() []PublishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PublishedEvent(nil), r.events...)
}

// Types returns the published event types in order.
func (r *RecordingPublisher) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
