// Package apperr defines the stable error categories returned by the API.
// Every failed operation carries one machine-checkable category plus a
// human-readable detail string; handlers map categories to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Category string

const (
	InvalidInput Category = "invalid_input"
	Unauthorized Category = "unauthorized"
	Forbidden    Category = "forbidden"
	NotFound     Category = "not_found"
	Conflict     Category = "conflict"
	Gone         Category = "gone"
	Dependency   Category = "dependency"
)

type Error struct {
	Category Category
	Detail   string
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is match two apperr values by category alone.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Category == other.Category
}

func New(cat Category, detail string) *Error {
	return &Error{Category: cat, Detail: detail}
}

func Newf(cat Category, format string, args ...any) *Error {
	return &Error{Category: cat, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause without exposing it in the response detail.
func Wrap(cat Category, detail string, cause error) *Error {
	return &Error{Category: cat, Detail: detail, cause: cause}
}

// CategoryOf extracts the category from an error chain; unclassified errors
// report as Dependency.
func CategoryOf(err error) Category {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Category
	}
	return Dependency
}

// HTTPStatus maps a category to its response status code.
func (c Category) HTTPStatus() int {
	switch c {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Gone:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
