package errors

import "net/http"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches an underlying cause to an HTTPError.
func Wrap(code int, message string, err error) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

// Helpers for common errors
var (
	BadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	Unauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	NotFound     = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	Conflict     = func(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, msg) }
	Internal     = func(msg string) *HTTPError { return NewHTTPError(http.StatusInternalServerError, msg) }
)
