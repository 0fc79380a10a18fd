package auth

import (
	"net/http"
	"strings"

	"github.com/user/marketdash-go/apperror"
	"github.com/user/marketdash-go/config"
)

// RequireAuth returns middleware that gates a route group on a valid bearer
// token. On success the derived Principal is attached to the request context
// for downstream handlers.
//
// All failure paths are 401. A missing header, a malformed header and a
// missing signing secret share one message; every token verification failure
// shares another. The distinction between expired and forged never reaches
// the caller.
func RequireAuth(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" || !cfg.Configured() {
				WriteError(w, r, apperror.NewAuthError("Unauthorized", nil))
				return
			}

			principal, err := VerifyToken(token, cfg)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("Invalid or expired token", nil))
				return
			}

			ctx := NewContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
