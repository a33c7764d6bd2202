// Package identity is the boundary to the external identity provider (the
// user pool that owns credentials and the custom:role attribute). The API
// only mirrors provider records into local rows; it never stores passwords.
package identity

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("identity: user not found")

// Provider is the narrow admin surface the API needs from the user pool.
type Provider interface {
	// CreateUser provisions a pool account with a temporary password and the
	// custom:role attribute set. Returns the provider's subject identifier.
	CreateUser(ctx context.Context, username, email, role, tempPassword string) (string, error)
	// DeleteUser removes the pool account addressed by email.
	DeleteUser(ctx context.Context, email string) error
	// GetRole reads the custom:role attribute. ErrUserNotFound when the pool
	// has no account for the email.
	GetRole(ctx context.Context, email string) (string, error)
}
