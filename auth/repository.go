package auth

import (
	"context"
	"errors"
)

// Sentinel errors returned by UserRepository implementations. The service
// layer maps these onto the external error taxonomy; callers above the
// service never see them.
var (
	// ErrDuplicateEmail indicates the unique constraint on email was hit.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound indicates no row matched the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository is the credential store boundary: durable user records with
// a uniqueness guarantee on the (normalized) email.
type UserRepository interface {
	// Create inserts a new user row and returns it with the store-assigned
	// id and creation timestamp. A unique-constraint violation on email is
	// reported as ErrDuplicateEmail.
	Create(ctx context.Context, email, passwordHash string, displayName *string) (*User, error)

	// GetByEmail fetches a user by exact normalized email, including the
	// password hash for credential verification. Returns ErrUserNotFound if
	// no row matches.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID fetches a user's public fields by id. Returns ErrUserNotFound
	// if no row matches (e.g. the user was deleted after a token was issued).
	GetByID(ctx context.Context, id string) (*User, error)
}
