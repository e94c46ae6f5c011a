package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("success_round_trip", func(t *testing.T) {
		m := NewManager("secret", time.Hour)
		token, err := m.GenerateToken("42")
		require.NoError(t, err)

		sub, err := m.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "42", sub)
	})

	t.Run("expired", func(t *testing.T) {
		m := NewManager("secret", time.Hour)
		m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := m.GenerateToken("42")
		require.NoError(t, err)

		m.now = time.Now
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token, err := NewManager("one", time.Hour).GenerateToken("42")
		require.NoError(t, err)

		_, err = NewManager("two", time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewManager("secret", time.Hour).ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty_subject", func(t *testing.T) {
		m := NewManager("secret", time.Hour)
		token, err := m.GenerateToken("")
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
