package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("OWNER")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = ParseRole("")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestJoinSeats(t *testing.T) {
	assert.Equal(t, "1,2", JoinSeats([]int{1, 2}))
	assert.Equal(t, "3,1,2", JoinSeats([]int{3, 1, 2}))
	assert.Equal(t, "7", JoinSeats([]int{7}))
	assert.Equal(t, "", JoinSeats(nil))
}
