package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pw", DefaultCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pw", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "unexpected hash prefix %q", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	assert.True(t, CheckPassword(hash, "s3cret-pw"))
	assert.False(t, CheckPassword(hash, "S3cret-pw"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pw"))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPasswordCostFallback(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHashPasswordLong(t *testing.T) {
	long := strings.Repeat("p", MaxPasswordBytes) + "-tail"
	hash, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, long))
	// bytes past the limit are ignored
	assert.True(t, CheckPassword(hash, strings.Repeat("p", MaxPasswordBytes)))
	assert.False(t, CheckPassword(hash, strings.Repeat("p", MaxPasswordBytes-1)))
}

func TestNewIssuer(t *testing.T) {
	_, err := NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	iss, err := NewIssuer("k", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, iss.TTL())
}

func TestTokenRoundTrip(t *testing.T) {
	iss, err := NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	raw, err := iss.MakeToken("acc-1", "doctor")
	require.NoError(t, err)

	c, err := iss.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", c.AccountID)
	assert.Equal(t, "doctor", c.Role)
	assert.Equal(t, time.Hour, c.ExpiresAt.Sub(c.IssuedAt.Time))
}

func TestTokenWrongSecret(t *testing.T) {
	a, _ := NewIssuer("secret-a", time.Hour)
	b, _ := NewIssuer("secret-b", time.Hour)

	raw, err := a.MakeToken("acc-1", "patient")
	require.NoError(t, err)

	_, err = b.ParseToken(raw)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	iss, _ := NewIssuer("k", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	iss.now = func() time.Time { return issued }
	raw, err := iss.MakeToken("acc-1", "patient")
	require.NoError(t, err)

	iss.now = time.Now
	_, err = iss.ParseToken(raw)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenRejectsNoneAlg(t *testing.T) {
	iss, _ := NewIssuer("k", time.Hour)
	c := Claims{
		AccountID: "acc-1",
		Role:      "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, c).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = iss.ParseToken(raw)
	assert.Error(t, err)
}
