package model

import (
	"errors"
	"fmt"
)

// Role is the closed set of account roles.  Signup always produces
// RoleUser; only seed data creates RoleAdmin.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ErrInvalidRole is returned by ParseRole for values outside the enum.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates a role string read from storage.  Login rejects
// accounts whose stored role does not parse.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// User represents an application user record as stored in the
// `users` table.  PasswordHash is an opaque bcrypt digest and must
// only be checked through the password verifier, never compared by
// equality.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (user or admin).
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	PasswordHash string // users.password
	Role         Role   // users.role
}
