package auth

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_very_long_for_testing_purposes"

func newTestTokenService(t *testing.T, secret string, now func() time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{Secret: secret, Algorithm: "HS256", TTL: 120 * time.Minute}, now)
	require.NoError(t, err)
	return svc
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	token, err := svc.Issue("alice", 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, ok := svc.Verify(token)
	require.True(t, ok)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(120*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_IssueWithTTL(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	for _, ttl := range []int{1, 5, 60 * 24} {
		token, err := svc.IssueWithTTL("bob", 7, ttl)
		require.NoError(t, err)

		claims, ok := svc.Verify(token)
		require.True(t, ok, "ttl %d", ttl)
		assert.Equal(t, "bob", claims.Subject)
		assert.Equal(t, int64(7), claims.UserID)
	}
}

func TestTokenService_ZeroTTLIsExpired(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	token, err := svc.IssueWithTTL("alice", 1, 0)
	require.NoError(t, err)

	claims, ok := svc.Verify(token)
	assert.False(t, ok)
	assert.Nil(t, claims)

	token, err = svc.IssueWithTTL("alice", 1, -5)
	require.NoError(t, err)
	_, ok = svc.Verify(token)
	assert.False(t, ok)
}

func TestTokenService_TTLTooLarge(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	token, err := svc.IssueWithTTL("alice", 1, math.MaxInt)
	assert.Empty(t, token)
	assert.ErrorContains(t, err, "exceeds maximum")
}

func TestTokenService_ExpiresWithoutLeeway(t *testing.T) {
	issued := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock := issued
	svc := newTestTokenService(t, testSecret, func() time.Time { return clock })

	token, err := svc.IssueWithTTL("alice", 1, 10)
	require.NoError(t, err)

	clock = issued.Add(10*time.Minute - time.Second)
	_, ok := svc.Verify(token)
	assert.True(t, ok, "token should still be valid one second before expiry")

	clock = issued.Add(10 * time.Minute)
	_, ok = svc.Verify(token)
	assert.False(t, ok, "token should be expired at its expiry instant")
}

func TestTokenService_TamperedToken(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	token, err := svc.Issue("alice", 1)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]
		_, ok := svc.Verify(tampered)
		assert.False(t, ok, "tampered byte %d accepted", i)
	}
}

func TestTokenService_RotatedSecret(t *testing.T) {
	old := newTestTokenService(t, testSecret, nil)
	token, err := old.Issue("alice", 1)
	require.NoError(t, err)

	rotated := newTestTokenService(t, testSecret+"-rotated", nil)
	claims, ok := rotated.Verify(token)
	assert.False(t, ok)
	assert.Nil(t, claims)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, ok := svc.Verify(hs512)
	assert.False(t, ok, "HS512 token accepted by HS256 service")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok = svc.Verify(none)
	assert.False(t, ok, "unsigned token accepted")
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "user_id": 1}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, ok := svc.Verify(token)
	assert.False(t, ok)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := newTestTokenService(t, testSecret, nil)

	for _, token := range []string{"", "not-a-jwt", "a.b.c", strings.Repeat(".", 3)} {
		claims, ok := svc.Verify(token)
		assert.False(t, ok, "token %q", token)
		assert.Nil(t, claims)
	}
}

func TestNewTokenService_Config(t *testing.T) {
	_, err := NewTokenService(TokenConfig{Secret: ""}, nil)
	assert.ErrorContains(t, err, "jwt secret must be provided")

	_, err = NewTokenService(TokenConfig{Secret: testSecret, Algorithm: "RS256"}, nil)
	assert.ErrorContains(t, err, "unsupported jwt algorithm")

	_, err = NewTokenService(TokenConfig{Secret: testSecret, Algorithm: "nope"}, nil)
	assert.Error(t, err)

	svc, err := NewTokenService(TokenConfig{Secret: testSecret}, nil)
	require.NoError(t, err)
	assert.Equal(t, "HS256", svc.Algorithm())
	assert.Equal(t, DefaultTokenTTL, svc.TTL())

	svc, err = NewTokenService(TokenConfig{Secret: testSecret, Algorithm: "HS512", TTL: time.Minute}, nil)
	require.NoError(t, err)
	token, err := svc.Issue("carol", 3)
	require.NoError(t, err)
	claims, ok := svc.Verify(token)
	require.True(t, ok)
	assert.Equal(t, "carol", claims.Subject)
}
