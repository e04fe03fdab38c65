package errors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when no user has the email presented at login.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPassword is returned when the presented password does not match.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrEmailExists is returned when registering an email that is already taken.
	ErrEmailExists = errors.New("email already exists")
	// ErrNotFound is returned when a movie or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPasswordTooLong is returned when registering a password the configured scheme cannot store.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrInvalidLimit is returned for a limit query parameter that is not a non-negative integer.
	ErrInvalidLimit = errors.New("limit must be a non-negative integer")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized is a
// store or internal failure and gets a generic 500 body.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, "unauthorized: user not found", "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidPassword):
		return NewHTTPError(http.StatusUnauthorized, "unauthorized: invalid password", "INVALID_PASSWORD")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrPasswordTooLong):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_TOO_LONG")
	case errors.Is(err, ErrInvalidLimit):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_LIMIT")
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return NewHTTPError(http.StatusNotFound, "not found", "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// MapAuthErrorToHTTP is MapErrorToHTTP with both login failures collapsed into
// one message, so clients cannot tell which factor failed.
func MapAuthErrorToHTTP(err error) *HTTPError {
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidPassword) {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized: invalid credentials", "INVALID_CREDENTIALS")
	}
	return MapErrorToHTTP(err)
}
