package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/marketdash-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user. Returns the created user and, when token signing is configured, a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.DataEnvelope{data=auth.SessionResponse} "User created"
// @Failure 400 {object} apperror.ErrorResponse "Invalid input or email already registered"
// @Failure 503 {object} apperror.ErrorResponse "Credential store not configured"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		result, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteData(w, http.StatusCreated, SessionResponse{
			User:  NewUserResponse(result.User, true),
			Token: result.Token,
		})
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Verifies credentials and returns the user with a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.DataEnvelope{data=auth.SessionResponse} "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Missing email or password"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 503 {object} apperror.ErrorResponse "Credential store or token signing not configured"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		result, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteData(w, http.StatusOK, SessionResponse{
			User:  NewUserResponse(result.User, false),
			Token: result.Token,
		})
	}
}

// DataEnvelope wraps every successful response body: {"data": ...}.
type DataEnvelope struct {
	Data interface{} `json:"data"`
}

// WriteData writes a success envelope with the given status.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, DataEnvelope{Data: data})
}

// writeJSON serializes data to JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into the standardized error envelope.
// Errors that are not already AppErrors become opaque 500s; server-side
// failures are logged with request context, but the response only ever
// carries the user-facing message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("Internal server error", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
