// Package auth is responsible for authentication and session issuance:
// user registration, credential verification, bearer-token issuance and
// token-gated access. It owns the user model, the credential store
// repository, and the HTTP surface for /auth/register and /auth/login.
package auth

import "time"

// User represents a user row in the credential store.
// The password hash is never serialized; `json:"-"` keeps it out of every
// response this struct could ever appear in.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	DisplayName    *string   `json:"display_name"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Principal is the authenticated identity derived from a verified token.
// It exists only for the duration of one request and carries nothing beyond
// what the token itself proves.
type Principal struct {
	UserID string
	Email  string
}
