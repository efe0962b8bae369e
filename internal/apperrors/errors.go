// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a domain failure. The handler layer maps kinds to HTTP
// status codes; domain code never touches net/http.
type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindRateLimited
	KindPrecondition
	KindInternal
)

type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Details    interface{}
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Details: details}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Code: "UNAUTHORIZED", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func RateLimited(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimited, Code: "RATE_LIMITED", Message: message, RetryAfter: retryAfter}
}

func Precondition(message string) *Error {
	return &Error{Kind: KindPrecondition, Code: "PRECONDITION", Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "internal server error", Err: err}
}

// HTTPStatus maps a kind to its status code. Uniqueness violations map to
// 400 like every other rejected input.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict, KindPrecondition:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// As extracts an *Error, wrapping anything unexpected as internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
