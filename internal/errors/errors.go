package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrHabitNotFound is returned when a habit does not exist or is not
	// owned by the caller. Ownership misses deliberately look identical to
	// unknown ids so habit existence never leaks across users.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrUserNotFound is returned when a user referenced by a valid token no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidDate is returned when a tracking date is missing or unparseable.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidYear is returned when a year query parameter is not a valid year.
	ErrInvalidYear = errors.New("invalid year")
	// ErrInvalidColor is returned when a habit color is not a 6-hex-digit code.
	ErrInvalidColor = errors.New("color must be a hex code like #FF5733")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrHabitNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "HABIT_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidDate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DATE")
	case errors.Is(err, ErrInvalidYear):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_YEAR")
	case errors.Is(err, ErrInvalidColor):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_COLOR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
