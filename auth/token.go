package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/marketdash-go/config"
)

// ErrInvalidToken is the single outcome for every token verification
// failure. Bad signature, malformed structure and expiry all collapse to it
// so a caller cannot tell an expired token from a forged one.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims is the session token payload: the user id as the registered
// subject plus the email, signed with the server secret.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for a user with the configured expiry
// (7 days by default). Returns an error if no signing secret is configured.
func IssueToken(user *User, cfg *config.AuthConfig) (string, error) {
	if !cfg.Configured() {
		return "", errors.New("token signing secret is not configured")
	}

	now := time.Now()
	claims := &TokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken parses and validates a session token and derives the Principal
// from its claims. Every failure mode is reported as ErrInvalidToken.
func VerifyToken(tokenString string, cfg *config.AuthConfig) (*Principal, error) {
	if !cfg.Configured() {
		return nil, ErrInvalidToken
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{UserID: claims.Subject, Email: claims.Email}, nil
}
