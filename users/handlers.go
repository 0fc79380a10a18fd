package users

import (
	"net/http"

	"github.com/user/marketdash-go/apperror"
	"github.com/user/marketdash-go/auth"
)

// UserHandlers provides HTTP handlers for the profile surface.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// HandleMe godoc
// @Summary Get the authenticated user's profile
// @Description Returns the profile belonging to the bearer token's principal.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.DataEnvelope{data=auth.UserResponse} "Profile"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired token"
// @Failure 404 {object} apperror.ErrorResponse "User no longer exists"
// @Failure 503 {object} apperror.ErrorResponse "Credential store not configured"
// @Router /me [get]
func (h *UserHandlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			// Only reachable if the route is mounted without RequireAuth.
			auth.WriteError(w, r, apperror.NewAuthError("Unauthorized", nil))
			return
		}

		user, err := h.service.GetProfile(r.Context(), principal)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteData(w, http.StatusOK, auth.NewUserResponse(user, true))
	}
}
