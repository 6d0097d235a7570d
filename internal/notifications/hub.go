// Package notifications fans engagement events out to realtime feed connections.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"promptly/internal/events"
	"promptly/internal/observability"

	"github.com/avast/retry-go/v4"
	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per user
	maxConnsPerUser = 12
	// Max total connections
	maxTotalConns = 10000

	wiringBaseDelay = 500 * time.Millisecond
	wiringMaxDelay  = 30 * time.Second
)

var (
	ErrServerFull  = errors.New("server connection limit reached")
	ErrUserFull    = errors.New("user connection limit reached")
	ErrHubShutdown = errors.New("hub is shutting down")

	errSubscriptionEnded = errors.New("event subscription ended")
)

// Subscriber delivers decoded events until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, fn func(events.Event)) error
}

// Hub maps userID to that user's open feed clients.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
	closed     bool
	shutdown   sync.Once
	log        *observability.WSLogger

	wiringBaseDelay time.Duration
	wiringMaxDelay  time.Duration
}

// NewHub creates an empty feed hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint]map[*Client]struct{}),
		log:   observability.NewWSLogger("feed"),

		wiringBaseDelay: wiringBaseDelay,
		wiringMaxDelay:  wiringMaxDelay,
	}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "feed hub" }

// Register a connection for a given userID. Returns the Client or error if limits exceeded.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubShutdown
	}
	if h.totalConns >= maxTotalConns {
		return nil, ErrServerFull
	}

	m, ok := h.conns[userID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[userID] = m
	}
	if len(m) >= maxConnsPerUser {
		return nil, ErrUserFull
	}

	client := NewClient(h, conn, userID)
	m[client] = struct{}{}
	h.totalConns++
	observability.FeedConnections.Inc()
	h.log.LogConnect(context.Background(), userID)
	return client, nil
}

// UnregisterClient removes the client. Unknown clients are ignored.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	removed := false
	if m, ok := h.conns[client.UserID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
			removed = true
		}
		if len(m) == 0 {
			delete(h.conns, client.UserID)
		}
	}
	h.mu.Unlock()

	if removed {
		observability.FeedConnections.Dec()
		h.log.LogDisconnect(context.Background(), client.UserID, "closed")
	}
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.conns {
		for c := range clients {
			c.TrySend(message)
		}
	}
}

// SendToUser sends message to every client the user has open.
func (h *Hub) SendToUser(userID uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[userID] {
		c.TrySend(message)
	}
}

// privateEvent reports whether only the acting user may see evt. Bookmarks are.
func privateEvent(eventType string) bool {
	return eventType == events.PromptBookmarked || eventType == events.PromptUnbookmarked
}

// Deliver encodes evt once, then sends it to the acting user for private events and
// to everyone otherwise.
func (h *Hub) Deliver(evt events.Event) {
	body, err := json.Marshal(evt)
	if err != nil {
		h.log.LogError(context.Background(), evt.UserID, err, evt.Type)
		return
	}
	if privateEvent(evt.Type) {
		h.SendToUser(evt.UserID, body)
		return
	}
	h.BroadcastAll(body)
}

// StartWiring forwards every event from sub to the connected clients. A dropped
// subscription is re-established with backoff; it returns only once ctx is done.
func (h *Hub) StartWiring(ctx context.Context, sub Subscriber) error {
	err := retry.Do(func() error {
		err := sub.Subscribe(ctx, h.Deliver)
		if ctx.Err() != nil {
			return retry.Unrecoverable(ctx.Err())
		}
		if err == nil {
			err = errSubscriptionEnded
		}
		observability.GlobalLogger.Warn("feed subscription dropped, retrying", "hub", h.Name(), "error", err)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(h.wiringBaseDelay),
		retry.MaxDelay(h.wiringMaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Shutdown closes every connection and refuses new ones.
func (h *Hub) Shutdown(_ context.Context) error {
	h.shutdown.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.closed = true
		for userID, userConns := range h.conns {
			for client := range userConns {
				if client.Conn == nil {
					continue
				}
				if err := client.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
					h.log.LogError(context.Background(), userID, err, "close")
				}
				_ = client.Conn.Close()
			}
		}
		observability.FeedConnections.Sub(float64(h.totalConns))
		h.conns = make(map[uint]map[*Client]struct{})
		h.totalConns = 0
	})
	return nil
}
