package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptly/internal/config"
	"promptly/internal/models"
	"promptly/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

type testServer struct {
	s   *Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:               testJWTSecret,
		JWTIssuer:               "promptly-api",
		JWTAudience:             "promptly-client",
		JWTTTLHours:             1,
		Port:                    "0",
		Env:                     "test",
		AllowedOrigins:          "http://localhost:5173",
		AssetMaxUploadSizeMB:    2,
		AssetMaxDimension:       64,
		LeaderboardDefaultLimit: 3,
		InteractionMaxRetries:   3,
	}
}

// newTestServer wires the real server against sqlite and miniredis.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s, err := NewServerWithDeps(testConfig(), db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.bus.Close() })

	return &testServer{s: s, app: s.newApp(), db: db, mr: mr}
}

// withAssets swaps in an in-memory asset host.
func (ts *testServer) withAssets() *testutil.MemoryStorage {
	mem := testutil.NewMemoryStorage()
	ts.s.store = mem
	ts.s.wireServices()
	return mem
}

// signIn creates a user and returns it with a valid bearer token.
func (ts *testServer) signIn(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	u := testutil.CreateUser(t, ts.db, username)
	token, err := ts.s.tokens.Issue(u.ID, u.Username)
	require.NoError(t, err)
	return u, token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.send(t, req, token)
}

func (ts *testServer) send(t *testing.T, req *http.Request, token string) (*http.Response, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// multipartBody builds a form with string fields and an optional file.
func multipartBody(t *testing.T, fields map[string][]string, fileField string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, "upload.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func validPromptBody() fiber.Map {
	return fiber.Map{
		"title":    "Haiku generator",
		"input":    "Write a haiku about goroutines",
		"tags":     []string{"AI", "poetry"},
		"ai_model": "gpt-4o",
		"output":   "Threads of light converge",
	}
}
