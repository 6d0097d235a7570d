package events

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis the backend uses.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// Redis publishes over Redis pub/sub. Messages are not persisted; subscribers that are
// offline miss them.
type Redis struct {
	rdb RedisClient
}

func NewRedis(rdb RedisClient) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Publish(ctx context.Context, topic string, data []byte, _ map[string]string) (string, error) {
	return "", r.rdb.Publish(ctx, topic, data).Err()
}

func (r *Redis) Subscribe(ctx context.Context, topic string, handler Handler) error {
	sub := r.rdb.Subscribe(ctx, topic)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			func() {
				defer func() {
					if rec := recover(); rec != nil {
						log.Printf("PANIC in events subscriber: %v\n%s", rec, debug.Stack())
					}
				}()
				_ = handler(ctx, Message{Data: []byte(msg.Payload)})
			}()
		}
	}
}

// Close is a no-op: the client is shared with the cache.
func (r *Redis) Close() error { return nil }

func (r *Redis) Name() string { return "redis" }
