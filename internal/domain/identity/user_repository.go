package identity

import (
	"context"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// FindByEmail finds a user by email.
	// Returns shared.ErrNotFound when no user has that email.
	FindByEmail(ctx context.Context, email string) (*User, error)
}
