package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	digest, err := h.Hash("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", digest)
	assert.True(t, h.Verify("password1", digest))
	assert.False(t, h.Verify("password2", digest))
	assert.False(t, h.Verify("password1", "not-a-digest"))
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).Cost)
	assert.Equal(t, 12, NewHasher(12).Cost)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", "abc-123", time.Hour)
	require.NoError(t, err)
	assert.True(t, tok.Exp.After(time.Now()))

	sid, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", sid)
}

func TestParseSessionTokenRejects(t *testing.T) {
	tok, err := NewSessionToken("secret", "abc-123", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	_, err = ParseSessionToken("secret", "garbage")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	expired, err := NewSessionToken("secret", "abc-123", -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken("secret", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	empty, err := NewSessionToken("secret", "", time.Hour)
	require.NoError(t, err)
	_, err = ParseSessionToken("secret", empty.Token)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}
