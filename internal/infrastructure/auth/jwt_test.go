package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/checkout/internal/infrastructure/config"
)

func newTestVerifier() *Verifier {
	return NewVerifier(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "identity"})
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := newTestVerifier()
	token, err := v.Issue("tenant-1", "user-1", time.Minute)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "identity", claims.Issuer)
}

func TestVerifier_Rejections(t *testing.T) {
	v := newTestVerifier()

	t.Run("expired", func(t *testing.T) {
		token, err := v.Issue("tenant-1", "", -time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewVerifier(config.JWTConfig{Secret: "another-secret-key-of-32-chars!!", Issuer: "identity"})
		token, err := other.Issue("tenant-1", "", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewVerifier(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "elsewhere"})
		token, err := other.Issue("tenant-1", "", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing tenant", func(t *testing.T) {
		token, err := v.Issue("", "user-1", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("not yet valid", func(t *testing.T) {
		future := newTestVerifier()
		future.now = func() time.Time { return time.Now().Add(time.Hour) }
		token, err := future.Issue("tenant-1", "", 2*time.Hour)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("other algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{TenantID: "tenant-1"}).
			SignedString([]byte("test-secret-key-at-least-32-chars"))
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
