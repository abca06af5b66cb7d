package breezeway

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenHolderExpiry(t *testing.T) {
	var h tokenHolder

	t.Run("no token", func(t *testing.T) {
		assert.True(t, h.expired())
	})

	t.Run("future exp", func(t *testing.T) {
		h.set(signedToken(t, time.Now().Add(time.Hour)), "refresh")
		assert.False(t, h.expired())
	})

	t.Run("past exp", func(t *testing.T) {
		h.set(signedToken(t, time.Now().Add(-time.Minute)), "refresh")
		assert.True(t, h.expired())
	})

	t.Run("opaque token treated as expired", func(t *testing.T) {
		h.set("not-a-jwt", "refresh")
		assert.True(t, h.expired())
	})

	t.Run("no exp claim deferred to the service", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "bot"})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		h.set(signed, "refresh")
		assert.False(t, h.expired())
	})
}
