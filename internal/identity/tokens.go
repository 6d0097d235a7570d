// Package identity issues and verifies access tokens and websocket tickets.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"promptly/internal/cache"
	"promptly/internal/config"
	"promptly/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Claims are the access token claims. The subject is the user id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// Tokens signs HS256 access tokens and tracks revocations in Redis.
type Tokens struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	rdb      *redis.Client
	now      func() time.Time
}

// NewTokens builds a token service. rdb may be nil, in which case revocation is not
// enforced and tickets cannot be issued.
func NewTokens(cfg *config.Config, rdb *redis.Client) *Tokens {
	ttl := time.Duration(cfg.JWTTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Tokens{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
		rdb:      rdb,
		now:      time.Now,
	}
}

// Issue creates a signed access token for the user.
func (t *Tokens) Issue(userID uint, username string) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := t.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses and validates a token, rejecting revoked ones. Every failure is an
// UNAUTHORIZED AppError.
func (t *Tokens) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	if claims.ID != "" && t.rdb != nil {
		revoked, err := t.rdb.Exists(ctx, cache.BlacklistKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}
	return claims, nil
}

// Revoke blacklists the token until it would have expired.
func (t *Tokens) Revoke(ctx context.Context, claims *Claims) error {
	if t.rdb == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(t.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := t.rdb.Set(ctx, cache.BlacklistKey(claims.ID), "1", ttl).Err(); err != nil {
		return models.NewExternalServiceError("revocation store", err)
	}
	return nil
}

// IssueTicket stores a single-use websocket ticket for the user.
func (t *Tokens) IssueTicket(ctx context.Context, userID uint) (string, error) {
	if t.rdb == nil {
		return "", models.NewExternalServiceError("ticket store", errors.New("redis not configured"))
	}
	ticket := uuid.NewString()
	if err := t.rdb.Set(ctx, cache.WSTicketKey(ticket), strconv.FormatUint(uint64(userID), 10), cache.WSTicketTTL).Err(); err != nil {
		return "", models.NewExternalServiceError("ticket store", err)
	}
	return ticket, nil
}

// RedeemTicket consumes a ticket and returns its user.
func (t *Tokens) RedeemTicket(ctx context.Context, ticket string) (uint, error) {
	if t.rdb == nil || ticket == "" {
		return 0, models.NewUnauthorizedError("Invalid or expired WebSocket ticket")
	}
	val, err := t.rdb.GetDel(ctx, cache.WSTicketKey(ticket)).Result()
	if err != nil {
		return 0, models.NewUnauthorizedError("Invalid or expired WebSocket ticket")
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewUnauthorizedError("Invalid or expired WebSocket ticket")
	}
	return uint(id), nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}
