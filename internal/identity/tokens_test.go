package identity

import (
	"context"
	"testing"
	"time"

	"promptly/internal/config"
	"promptly/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret-that-is-long-enough-123456",
		JWTIssuer:   "promptly-api",
		JWTAudience: "promptly-client",
		JWTTTLHours: 1,
	}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := NewTokens(testConfig(), nil)

	signed, err := tokens.Issue(42, "alice")
	require.NoError(t, err)

	claims, err := tokens.Verify(context.Background(), signed)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "alice", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestTokens_VerifyRejects(t *testing.T) {
	cfg := testConfig()
	tokens := NewTokens(cfg, nil)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret-that-is-long-enough-99"
	foreign, err := NewTokens(otherCfg, nil).Issue(1, "x")
	require.NoError(t, err)

	wrongAud := testConfig()
	wrongAud.JWTAudience = "someone-else"
	misaddressed, err := NewTokens(wrongAud, nil).Issue(1, "x")
	require.NoError(t, err)

	expiredIssuer := NewTokens(cfg, nil)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(1, "x")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   foreign,
		"wrong audience": misaddressed,
		"expired":        expired,
		"alg none":       unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Verify(context.Background(), tok)
			assert.True(t, models.IsCode(err, models.CodeUnauthorized))
		})
	}
}

func TestTokens_Revoke(t *testing.T) {
	mr, rdb := newRedis(t)
	tokens := NewTokens(testConfig(), rdb)
	ctx := context.Background()

	signed, err := tokens.Issue(7, "bob")
	require.NoError(t, err)
	claims, err := tokens.Verify(ctx, signed)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(ctx, claims))
	assert.True(t, mr.Exists("blacklist:"+claims.ID))
	assert.Greater(t, mr.TTL("blacklist:"+claims.ID), time.Duration(0))

	_, err = tokens.Verify(ctx, signed)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}

func TestTokens_Tickets(t *testing.T) {
	_, rdb := newRedis(t)
	tokens := NewTokens(testConfig(), rdb)
	ctx := context.Background()

	ticket, err := tokens.IssueTicket(ctx, 5)
	require.NoError(t, err)

	id, err := tokens.RedeemTicket(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, uint(5), id)

	_, err = tokens.RedeemTicket(ctx, ticket)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized), "tickets are single use")
}

func TestTokens_TicketsNeedRedis(t *testing.T) {
	tokens := NewTokens(testConfig(), nil)
	_, err := tokens.IssueTicket(context.Background(), 1)
	assert.True(t, models.IsCode(err, models.CodeExternalService))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("SecurePass12!@")
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass12!@", hash)
	assert.True(t, CheckPassword(hash, "SecurePass12!@"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
