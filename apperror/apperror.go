// Package apperror defines a centralized system for application-specific errors.
// Every failure that crosses the HTTP boundary is converted into an AppError,
// which knows its status code and its JSON envelope representation.
//
// The taxonomy is intentionally coarse on the authentication paths: invalid
// credentials and invalid tokens each collapse to a single outward kind so a
// caller cannot distinguish which half of a credential pair was wrong, or
// whether a token was expired versus tampered with.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the type of application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the credential store.
	DatabaseError
	// AuthError represents an authentication failure (invalid credentials or
	// an invalid/expired/forged token). Always 401, never more specific.
	AuthError
	// NotFoundError represents a resource not found error.
	NotFoundError
	// ValidationError represents an input validation error.
	ValidationError
	// BadRequestError represents a generic bad request.
	BadRequestError
	// DuplicateEmailError represents a registration attempt with an email
	// that is already taken. Distinct from validation so the store-level
	// unique violation keeps its own kind, but still a 400 on the wire.
	DuplicateEmailError
	// UnavailableError represents a missing or unreachable collaborator
	// (credential store, quote cache, token signing secret).
	UnavailableError
	// InternalError represents a generic internal server error.
	InternalError
)

// AppError is the application's error type. It wraps an optional underlying
// error for debugging and carries an optional data payload that rides along
// in the response envelope.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	// Data is included in the JSON envelope when non-nil, e.g. the symbol of
	// a quote that was not cached.
	Data map[string]any
}

// Error returns the string representation, satisfying the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, supporting errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithData attaches an envelope data payload and returns the same error.
func (e *AppError) WithData(data map[string]any) *AppError {
	e.Data = data
	return e
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError, DuplicateEmailError:
		return http.StatusBadRequest
	case UnavailableError:
		return http.StatusServiceUnavailable
	case DatabaseError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. Generic constructor for error types
// determined dynamically; prefer the typed constructors below.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewAuthError creates a new AuthError.
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError.
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewDuplicateEmailError creates a new DuplicateEmailError.
func NewDuplicateEmailError(message string, underlyingError error) *AppError {
	return NewAppError(DuplicateEmailError, message, underlyingError)
}

// NewUnavailableError creates a new UnavailableError.
func NewUnavailableError(message string, underlyingError error) *AppError {
	return NewAppError(UnavailableError, message, underlyingError)
}

// NewInternalError creates a new InternalError.
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// ErrorResponse represents the error envelope returned to API clients:
// {"error": "...", "data": {...}} with data omitted when absent.
type ErrorResponse struct {
	Error string         `json:"error" example:"A description of the error"`
	Data  map[string]any `json:"data,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse. Only the user-facing
// message and the optional data payload are included, never the underlying
// error detail.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Data: e.Data}
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError checks if an error is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsValidationError checks if an error is a Validation error.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsDuplicateEmail checks if an error is a DuplicateEmail error.
func IsDuplicateEmail(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == DuplicateEmailError
}

// IsUnavailable checks if an error is an Unavailable error.
func IsUnavailable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == UnavailableError
}
