package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an operational error: an expected failure with a safe,
// client-facing message and an HTTP status code. Anything that is not an
// AppError is treated as a programming error and never leaks its detail
// to the client.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// Status returns the "status" field of the error body: "fail" for 4xx,
// "error" for everything else.
func (e *AppError) Status() string {
	if e.Code >= 400 && e.Code < 500 {
		return "fail"
	}

	return "error"
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(format string, args ...any) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func RateLimited(message string) *AppError {
	return New(http.StatusTooManyRequests, message)
}

// IsOperational reports whether err (or anything it wraps) is an AppError.
func IsOperational(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// From extracts the AppError wrapped in err, or nil.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return nil
}
