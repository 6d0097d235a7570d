package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"promptly/internal/models"
	"promptly/internal/service"
	"promptly/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Sup3r$ecretPass"

func TestSignupLoginLogout(t *testing.T) {
	ts := newTestServer(t)

	resp, raw := ts.do(t, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "newcomer",
		"email":    "  NewComer@Example.com ",
		"password": strongPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	signup := decode[service.Session](t, raw)
	require.NotEmpty(t, signup.Token)
	assert.Equal(t, "newcomer@example.com", signup.User.Email)
	assert.Equal(t, 0, signup.User.TotalPrompts)
	assert.NotContains(t, string(raw), strongPassword)

	resp, raw = ts.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "newcomer@example.com",
		"password": "Wr0ng$Password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.CodeUnauthorized, decode[models.ErrorResponse](t, raw).Code)

	resp, raw = ts.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "newcomer@example.com",
		"password": strongPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	login := decode[service.Session](t, raw)

	resp, _ = ts.do(t, http.MethodGet, "/api/users/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = ts.do(t, http.MethodGet, "/api/users/profile", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token has been revoked", decode[models.ErrorResponse](t, raw).Error)

	resp, _ = ts.do(t, http.MethodGet, "/api/users/profile", signup.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignup_Rejections(t *testing.T) {
	ts := newTestServer(t)
	testutil.CreateUser(t, ts.db, "taken")

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"weak password", fiber.Map{"username": "someone", "email": "someone@example.com", "password": "short"}},
		{"bad email", fiber.Map{"username": "someone", "email": "not-an-email", "password": strongPassword}},
		{"existing email", fiber.Map{"username": "another", "email": "taken@example.com", "password": strongPassword}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := ts.do(t, http.MethodPost, "/api/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, models.CodeValidation, decode[models.ErrorResponse](t, raw).Code)
		})
	}
}

func TestSignup_MultipartProfilePicture(t *testing.T) {
	ts := newTestServer(t)
	mem := ts.withAssets()

	body, contentType := multipartBody(t, map[string][]string{
		"username": {"avatar_user"},
		"email":    {"avatar@example.com"},
		"password": {strongPassword},
	}, "profile_picture", testutil.TinyPNG(t, 16, 16))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", body)
	req.Header.Set("Content-Type", contentType)

	resp, raw := ts.send(t, req, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	session := decode[service.Session](t, raw)
	assert.True(t, strings.HasPrefix(session.User.ProfilePicture, "https://assets.test/profiles/"), session.User.ProfilePicture)
	assert.Equal(t, 1, mem.Len())
}

func TestSignup_PictureWithoutAssetHost(t *testing.T) {
	ts := newTestServer(t)

	body, contentType := multipartBody(t, map[string][]string{
		"username": {"avatar_user"},
		"email":    {"avatar@example.com"},
		"password": {strongPassword},
	}, "profile_picture", testutil.TinyPNG(t, 16, 16))
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", body)
	req.Header.Set("Content-Type", contentType)

	resp, raw := ts.send(t, req, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), "VALIDATION_ERROR")

	var n int64
	require.NoError(t, ts.db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWebSocketTicket_SingleUse(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signIn(t, "listener")

	resp, _ := ts.do(t, http.MethodPost, "/api/ws/ticket", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := ts.do(t, http.MethodPost, "/api/ws/ticket", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	issued := decode[struct {
		Ticket    string `json:"ticket"`
		ExpiresIn int    `json:"expires_in"`
	}](t, raw)
	require.NotEmpty(t, issued.Ticket)
	assert.Positive(t, issued.ExpiresIn)

	resp, _ = ts.do(t, http.MethodGet, "/api/ws/feed?ticket="+issued.Ticket, "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)

	resp, raw = ts.do(t, http.MethodGet, "/api/ws/feed?ticket="+issued.Ticket, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid or expired WebSocket ticket", decode[models.ErrorResponse](t, raw).Error)
}

func TestWebSocketFeed_RejectsQueryToken(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.signIn(t, "listener")

	resp, _ := ts.do(t, http.MethodGet, "/api/ws/feed?token="+token, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
