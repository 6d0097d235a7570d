package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	BlacklistKeyPrefix = "blacklist:%s"
	WSTicketKeyPrefix  = "ws_ticket:%s"
)

const (
	UserTTL     = 5 * time.Minute
	WSTicketTTL = 60 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// BlacklistKey holds a revoked token's jti until the token would have expired anyway.
func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistKeyPrefix, jti)
}

func WSTicketKey(ticket string) string {
	return fmt.Sprintf(WSTicketKeyPrefix, ticket)
}

// Invalidate deletes key. It runs after a commit, so a cancelled request still drops the key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(context.WithoutCancel(ctx), key)
	}
}

// InvalidateUser drops the cached user record, which carries total_prompts.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
