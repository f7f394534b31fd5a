package auth_test

import (
	"testing"

	"github.com/avukatajanda/ajanda/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("verifies correct password", func(t *testing.T) {
		hash, err := auth.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "correct horse battery staple", hash)

		assert.True(t, auth.CheckPassword("correct horse battery staple", hash))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		hash, err := auth.HashPassword("secret-one")
		require.NoError(t, err)

		assert.False(t, auth.CheckPassword("secret-two", hash))
		assert.False(t, auth.CheckPassword("", hash))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		h1, err := auth.HashPassword("same-password")
		require.NoError(t, err)
		h2, err := auth.HashPassword("same-password")
		require.NoError(t, err)

		assert.NotEqual(t, h1, h2)
		assert.True(t, auth.CheckPassword("same-password", h1))
		assert.True(t, auth.CheckPassword("same-password", h2))
	})

	t.Run("malformed hash returns false not panic", func(t *testing.T) {
		assert.False(t, auth.CheckPassword("anything", "not-a-bcrypt-hash"))
		assert.False(t, auth.CheckPassword("anything", ""))
	})
}
