package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, pw := range []string{"password1", "pässwörd-ünïcode", "", "12345678901234567890"} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)

		ok, err := h.Verify(pw, hash)
		require.NoError(t, err)
		assert.True(t, ok, "verify(%q, hash(%q))", pw, pw)

		ok, err = h.Verify(pw+"x", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestBcryptHasher_LongInputs(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	long := strings.Repeat("a", 73)
	emoji := strings.Repeat("😀", 20)
	for _, pw := range []string{long, emoji, strings.Repeat("x", 1000)} {
		hash, err := h.Hash(pw)
		require.NoError(t, err, "len=%d", len(pw))

		ok, err := h.Verify(pw, hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// inputs sharing the first 72 bytes must not collide
	hash, err := h.Hash(long)
	require.NoError(t, err)
	ok, err := h.Verify(strings.Repeat("a", 74), hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_UsesCost(t *testing.T) {
	t.Parallel()

	hash, err := NewBcryptHasher(5).Hash("password1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)

	assert.Equal(t, common.DefaultBcryptCost, NewBcryptHasher(0).cost)
	assert.Equal(t, common.DefaultBcryptCost, NewBcryptHasher(99).cost)
}

func TestBcryptHasher_Errors(t *testing.T) {
	t.Parallel()
	h := NewBcryptHasher(bcrypt.MinCost)

	ok, err := h.Verify("password1", "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrComparison)
}
