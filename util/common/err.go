package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API error for the machine-readable response body.
type Kind string

const (
	KindValidation       Kind = "validation_failure"
	KindConflict         Kind = "conflict"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindInvalidCode      Kind = "invalid_code"
	KindStoreUnavailable Kind = "store_unavailable"
)

// APIError carries a kind alongside the human message. Every request
// failure the service produces on purpose is one of these; anything
// else is treated as a store failure.
type APIError struct {
	Kind Kind
	Msg  string
}

func (e *APIError) Error() string {
	return e.Msg
}

func NewValidationf(format string, a ...any) error {
	return &APIError{Kind: KindValidation, Msg: fmt.Sprintf(format, a...)}
}

func NewConflictf(format string, a ...any) error {
	return &APIError{Kind: KindConflict, Msg: fmt.Sprintf(format, a...)}
}

func NewUnauthorized(msg string) error {
	return &APIError{Kind: KindUnauthorized, Msg: msg}
}

func NewForbidden(msg string) error {
	return &APIError{Kind: KindForbidden, Msg: msg}
}

func NewNotFoundf(format string, a ...any) error {
	return &APIError{Kind: KindNotFound, Msg: fmt.Sprintf(format, a...)}
}

func NewInvalidCode(msg string) error {
	return &APIError{Kind: KindInvalidCode, Msg: msg}
}

// KindOf returns the error's kind. Unknown errors are reported as store
// failures: client faults are always constructed as APIError, so what
// remains is the storage layer.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindStoreUnavailable
}

// StatusOf maps an error to the HTTP status its kind is surfaced with.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInvalidCode, KindConflict:
		// Conflicts ride on 400 like the other request faults; the kind
		// field tells them apart.
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}
