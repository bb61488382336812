package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when a login does not match a stored user.
	// Unknown usernames and wrong passwords both produce this error.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrAuthenticationFailed is returned when a bearer token is missing, invalid or expired.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrForbidden is returned when the acting user is not the owner of the target resource.
	ErrForbidden = errors.New("permission denied")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrMovieNotFound is returned when a movie is not found.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrGenreNotFound is returned when no movie carries the requested genre.
	ErrGenreNotFound = errors.New("genre not found")
	// ErrDirectorNotFound is returned when no movie carries the requested director.
	ErrDirectorNotFound = errors.New("director not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when the email address is already registered.
	ErrEmailTaken = errors.New("email address is already in use")
	// ErrStoreUnavailable is returned when the data store fails or times out.
	ErrStoreUnavailable = errors.New("data store unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// FieldError describes one violated input constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrorResponse lists every field that failed validation.
type ValidationErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Errors []FieldError `json:"errors"`
}

// NewValidationErrorResponse wraps field errors in the standard 422 body.
func NewValidationErrorResponse(fields []FieldError) ValidationErrorResponse {
	return ValidationErrorResponse{
		Error:  "validation failed",
		Code:   "VALIDATION_FAILED",
		Errors: fields,
	}
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
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAuthenticationFailed):
		return NewHTTPError(http.StatusUnauthorized, ErrAuthenticationFailed.Error(), "AUTHENTICATION_FAILED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrMovieNotFound):
		return NewHTTPError(http.StatusNotFound, ErrMovieNotFound.Error(), "MOVIE_NOT_FOUND")
	case errors.Is(err, ErrGenreNotFound):
		return NewHTTPError(http.StatusNotFound, ErrGenreNotFound.Error(), "GENRE_NOT_FOUND")
	case errors.Is(err, ErrDirectorNotFound):
		return NewHTTPError(http.StatusNotFound, ErrDirectorNotFound.Error(), "DIRECTOR_NOT_FOUND")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusInternalServerError, ErrStoreUnavailable.Error(), "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
