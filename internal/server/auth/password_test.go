package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *BcryptHasher {
	t.Helper()
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestBcryptHasher_HashThenVerify(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	for _, pw := range []string{"secret1", "pässwörd", strings.Repeat("x", 72), " "} {
		digest, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, digest)

		ok, err := h.Verify(pw, digest)
		require.NoError(t, err)
		assert.True(t, ok, "password %q must verify", pw)

		ok, err = h.Verify(pw+"!", digest)
		require.NoError(t, err)
		assert.False(t, ok, "other plaintext must not verify")
	}
}

func TestBcryptHasher_SaltsEveryCall(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	t.Parallel()
	h, err := NewBcryptHasher(5)
	require.NoError(t, err)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestBcryptHasher_MalformedHashIsHashingError(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	ok, err := h.Verify("secret1", "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, common.ErrHashing))
}

func TestBcryptHasher_TooLongPasswordIsHashingError(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.True(t, errors.Is(err, common.ErrHashing))
}

func TestBcryptHasher_VerifyRejectsOverLongCandidate(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	pw := strings.Repeat("a", MaxPasswordBytes)
	digest, err := h.Hash(pw)
	require.NoError(t, err)

	ok, err := h.Verify(pw, digest)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, candidate := range []string{pw + "b", pw + "-something-else"} {
		ok, err := h.Verify(candidate, digest)
		assert.NoError(t, err)
		assert.False(t, ok, "candidate of %d bytes must not match", len(candidate))
	}
}

func TestNewBcryptHasher_RejectsCostOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := NewBcryptHasher(bcrypt.MinCost - 1)
	assert.Error(t, err)
	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
