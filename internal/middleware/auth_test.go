package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptly/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClaims struct{ jti string }

func testAuthConfig() AuthConfig {
	return AuthConfig{
		VerifyToken: func(_ context.Context, token string) (uint, any, error) {
			switch token {
			case "good":
				return 123, &fakeClaims{jti: "j1"}, nil
			case "revoked":
				return 0, nil, models.NewUnauthorizedError("Token has been revoked")
			default:
				return 0, nil, errors.New("bad token")
			}
		},
		RedeemTicket: func(_ context.Context, ticket string) (uint, error) {
			if ticket == "t1" {
				return 77, nil
			}
			return 0, errors.New("unknown ticket")
		},
		TicketPrefix: "/api/ws",
	}
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	echo := func(c *fiber.Ctx) error {
		_, hasClaims := c.Locals(LocalClaims).(*fakeClaims)
		ctxUser, _ := c.UserContext().Value(UserIDKey).(uint)
		return c.JSON(fiber.Map{"userID": UserIDFrom(c), "claims": hasClaims, "ctx": ctxUser})
	}
	app.Get("/test", AuthRequired(testAuthConfig()), echo)
	app.Get("/api/ws/feed", AuthRequired(testAuthConfig()), echo)

	tests := []struct {
		name           string
		path           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
		expectedError  string
	}{
		{name: "Happy Path", path: "/test", authHeader: "Bearer good", expectedStatus: http.StatusOK, expectedUserID: 123},
		{name: "Missing Header", path: "/test", expectedStatus: http.StatusUnauthorized, expectedError: "Authorization required"},
		{name: "Invalid Format", path: "/test", authHeader: "Basic dXNlcjpwYXNz", expectedStatus: http.StatusUnauthorized},
		{name: "Malformed Token", path: "/test", authHeader: "Bearer malformed", expectedStatus: http.StatusUnauthorized, expectedError: "Invalid or expired token"},
		{name: "Revoked Token Keeps Reason", path: "/test", authHeader: "Bearer revoked", expectedStatus: http.StatusUnauthorized, expectedError: "Token has been revoked"},
		{name: "Token Via Query", path: "/test?token=good", expectedStatus: http.StatusOK, expectedUserID: 123},
		{name: "WS Ticket", path: "/api/ws/feed?ticket=t1", expectedStatus: http.StatusOK, expectedUserID: 77},
		{name: "WS Bad Ticket", path: "/api/ws/feed?ticket=nope", expectedStatus: http.StatusUnauthorized, expectedError: "Invalid or expired WebSocket ticket"},
		{name: "WS Refuses Query Token", path: "/api/ws/feed?token=good", expectedStatus: http.StatusUnauthorized},
		{name: "WS Accepts Header", path: "/api/ws/feed", authHeader: "Bearer good", expectedStatus: http.StatusOK, expectedUserID: 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
				assert.Equal(t, float64(tt.expectedUserID), body["ctx"])
				return
			}
			assert.Equal(t, models.CodeUnauthorized, body["code"])
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/feed", OptionalAuth(testAuthConfig()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": UserIDFrom(c)})
	})

	for header, want := range map[string]float64{"": 0, "Bearer good": 123, "Bearer junk": 0} {
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]float64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, want, body["userID"], "header %q", header)
	}
}
