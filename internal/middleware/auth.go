package middleware

import (
	"context"
	"strings"

	"promptly/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID = "userID"
	LocalClaims = "claims"
)

// AuthConfig supplies the credential checks used by AuthRequired.
type AuthConfig struct {
	// VerifyToken validates a bearer token and returns its user and claims.
	VerifyToken func(ctx context.Context, token string) (uint, any, error)
	// RedeemTicket consumes a single-use websocket ticket. Nil disables tickets.
	RedeemTicket func(ctx context.Context, ticket string) (uint, error)
	// TicketPrefix is the path prefix on which tickets are accepted and bearer
	// tokens in the query string are refused.
	TicketPrefix string
}

// AuthRequired enforces authentication. On success the user id is stored in Fiber locals
// and in the request context so downstream logs carry it.
func AuthRequired(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		isWSPath := cfg.TicketPrefix != "" && strings.HasPrefix(c.Path(), cfg.TicketPrefix)

		if ticket := c.Query("ticket"); ticket != "" && isWSPath && cfg.RedeemTicket != nil {
			userID, err := cfg.RedeemTicket(c.UserContext(), ticket)
			if err != nil {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
			return authenticated(c, userID, nil)
		}

		tokenString := bearerToken(c.Get("Authorization"))
		if tokenString == "" && !isWSPath {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, claims, err := cfg.VerifyToken(c.UserContext(), tokenString)
		if err != nil || userID == 0 {
			if err == nil || !models.IsCode(err, models.CodeUnauthorized) {
				err = models.NewUnauthorizedError("Invalid or expired token")
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return authenticated(c, userID, claims)
	}
}

// OptionalAuth identifies the caller when a valid bearer token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get("Authorization"))
		if tokenString == "" {
			return c.Next()
		}
		userID, claims, err := cfg.VerifyToken(c.UserContext(), tokenString)
		if err != nil || userID == 0 {
			return c.Next()
		}
		return authenticated(c, userID, claims)
	}
}

// UserIDFrom returns the authenticated user, or 0 for anonymous requests.
func UserIDFrom(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

func authenticated(c *fiber.Ctx, userID uint, claims any) error {
	c.Locals(LocalUserID, userID)
	if claims != nil {
		c.Locals(LocalClaims, claims)
	}
	c.SetUserContext(WithUserID(c.UserContext(), userID))
	return c.Next()
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
