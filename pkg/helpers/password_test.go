package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_SaltedRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	h1, err := h.Hash("secret123")
	require.NoError(t, err)
	h2, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "salt must differ per call")
	assert.True(t, strings.HasPrefix(h1, "$2a$"), "hash is algorithm tagged")
	assert.True(t, h.Verify("secret123", h1))
	assert.True(t, h.Verify("secret123", h2))
	assert.False(t, h.Verify("secret124", h1))
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "plain", "$2a$04$short", "$9z$04$" + strings.Repeat("a", 53)} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("secret123", bad), bad)
		})
	}
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
}
