// Package users serves the authenticated user's profile. It reads the same
// credential store the auth flow writes, keyed by the principal derived from
// the session token.
package users

import (
	"context"
	"errors"

	"github.com/user/marketdash-go/apperror"
	"github.com/user/marketdash-go/auth"
)

// UserService provides profile lookups. A nil repository means the
// credential store is not configured.
type UserService struct {
	repo auth.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo auth.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// GetProfile fetches the public profile for an authenticated principal.
// A valid token whose user row no longer exists yields NotFound: tokens are
// not revoked server-side, so deletion surfaces here.
func (s *UserService) GetProfile(ctx context.Context, principal *auth.Principal) (*auth.User, error) {
	if s.repo == nil {
		return nil, apperror.NewUnavailableError("Service unavailable", nil)
	}

	user, err := s.repo.GetByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, apperror.NewNotFoundError("User not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user profile", err)
	}
	return user, nil
}
