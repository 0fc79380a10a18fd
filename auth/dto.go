package auth

import "time"

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
	// DisplayName is optional and truncated to 100 characters.
	DisplayName *string `json:"display_name,omitempty" example:"Jane Doe"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"strongpassword123"`
}

// UserResponse is the public view of a user. The password hash is not a
// field here at all, so it cannot leak through this path.
type UserResponse struct {
	ID          string  `json:"id" example:"6a1f6f9e-0b9d-4f1a-9b6e-0c2f3a4d5e6f"`
	Email       string  `json:"email" example:"user@example.com"`
	DisplayName *string `json:"display_name" example:"Jane Doe"`
	// CreatedAt is included on register and profile responses, omitted on login.
	CreatedAt *time.Time `json:"created_at,omitempty" example:"2023-01-15T10:30:00Z"`
}

// SessionResponse is the payload of the data envelope for register and
// login: the public user plus the session token. Token is omitted when no
// signing secret is configured (register only).
type SessionResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token,omitempty" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// NewUserResponse maps a user row to its public view. withCreatedAt selects
// whether the creation timestamp appears.
func NewUserResponse(user *User, withCreatedAt bool) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
	if withCreatedAt {
		createdAt := user.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}
