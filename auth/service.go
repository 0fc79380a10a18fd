package auth

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/marketdash-go/apperror"
	"github.com/user/marketdash-go/config"
)

const (
	minPasswordLength    = 8
	maxDisplayNameLength = 100
)

// emailPattern is the registration-time format check: something@something
// with a dot in the domain part and no whitespace. Deliberately simple;
// deliverability is not this system's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dummyHash is verified against when login hits an unknown email, so the
// unknown-email and wrong-password failures cost the same bcrypt work and
// stay indistinguishable to the caller.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("marketdash.dummy.comparison"), bcrypt.DefaultCost)

// AuthService orchestrates register, login and token issuance over the
// credential store. A nil repository means the store is not configured and
// every operation degrades to a service-unavailable failure.
type AuthService struct {
	repo       UserRepository
	authConfig *config.AuthConfig
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService. repo may be nil when no
// credential store is configured.
func NewAuthService(repo UserRepository, authConfig *config.AuthConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		authConfig: authConfig,
		logger:     logger,
	}
}

// AuthResult is the outcome of a successful register or login: the user row
// and a session token. Token is empty when no signing secret is configured
// (register only; login requires one).
type AuthResult struct {
	User  *User
	Token string
}

// normalizeEmail applies the canonical form used for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// truncateDisplayName trims whitespace and caps the name at
// maxDisplayNameLength characters. Empty after trimming means no name.
func truncateDisplayName(name string) *string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	if runes := []rune(trimmed); len(runes) > maxDisplayNameLength {
		trimmed = string(runes[:maxDisplayNameLength])
	}
	return &trimmed
}

// Register creates a new user and, when a signing secret is configured,
// issues a session token for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if s.repo == nil {
		return nil, apperror.NewUnavailableError("Service unavailable", nil)
	}
	if req.Email == "" || req.Password == "" {
		return nil, apperror.NewValidationError("email and password required", nil)
	}

	email := normalizeEmail(req.Email)
	if !emailPattern.MatchString(email) {
		return nil, apperror.NewValidationError("Invalid email", nil)
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.NewValidationError("Password must be at least 8 characters", nil)
	}

	var displayName *string
	if req.DisplayName != nil {
		displayName = truncateDisplayName(*req.DisplayName)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("Registration failed", err)
	}

	user, err := s.repo.Create(ctx, email, string(hashedPassword), displayName)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperror.NewDuplicateEmailError("Email already registered", nil)
		}
		s.logger.Error("register failed", "email", email, "error", err)
		return nil, apperror.NewBadRequestError("Registration failed", err)
	}

	var token string
	if s.authConfig.Configured() {
		token, err = IssueToken(user, s.authConfig)
		if err != nil {
			return nil, apperror.NewInternalError("Registration failed", err)
		}
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a session token.
//
// An unknown email and a wrong password produce the same error; callers must
// not learn which half of the pair was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if s.repo == nil {
		return nil, apperror.NewUnavailableError("Service unavailable", nil)
	}
	if req.Email == "" || req.Password == "" {
		return nil, apperror.NewValidationError("email and password required", nil)
	}

	email := normalizeEmail(req.Email)
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn the same bcrypt cost as the found-user path.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, apperror.NewAuthError("Invalid email or password", nil)
		}
		s.logger.Error("login lookup failed", "error", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		return nil, apperror.NewAuthError("Invalid email or password", nil)
	}

	if !s.authConfig.Configured() {
		return nil, apperror.NewUnavailableError("Auth not configured", nil)
	}

	token, err := IssueToken(user, s.authConfig)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}
