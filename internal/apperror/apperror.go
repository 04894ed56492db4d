// Package apperror defines the machine-readable error kinds shared by every
// service. Each kind maps to exactly one HTTP status, and handlers render it
// as {"error": kind, "error_description": "..."}.
package apperror

import (
	"errors"
	"net/http"
)

// Kind is a stable error identifier that callers can switch on.
type Kind string

// Issuance-time kinds.
const (
	InvalidRequest       Kind = "invalid_request"
	InvalidClient        Kind = "invalid_client"
	UnauthorizedClient   Kind = "unauthorized_client"
	InvalidGrant         Kind = "invalid_grant"
	UnsupportedGrantType Kind = "unsupported_grant_type"
)

// Verification-time kinds.
const (
	MissingToken            Kind = "missing_token"
	InvalidToken            Kind = "invalid_token"
	ExpiredToken            Kind = "expired_token"
	VerificationUnavailable Kind = "verification_unavailable"
)

// Resource-level and server kinds.
const (
	NotFound        Kind = "not_found"
	TooManyRequests Kind = "too_many_requests"
	Internal        Kind = "internal_error"
)

var statusByKind = map[Kind]int{
	InvalidRequest:          http.StatusBadRequest,
	UnauthorizedClient:      http.StatusBadRequest,
	InvalidGrant:            http.StatusBadRequest,
	UnsupportedGrantType:    http.StatusBadRequest,
	InvalidClient:           http.StatusUnauthorized,
	MissingToken:            http.StatusUnauthorized,
	InvalidToken:            http.StatusUnauthorized,
	ExpiredToken:            http.StatusUnauthorized,
	NotFound:                http.StatusNotFound,
	TooManyRequests:         http.StatusTooManyRequests,
	VerificationUnavailable: http.StatusServiceUnavailable,
	Internal:                http.StatusInternalServerError,
}

// Status returns the HTTP status for k. Unknown kinds are treated as internal errors.
func (k Kind) Status() int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Known reports whether k is one of the declared kinds.
func (k Kind) Known() bool {
	_, ok := statusByKind[k]
	return ok
}

// Error carries a Kind, an optional human-readable description that is safe
// to show to callers, and an optional cause that is only ever logged.
type Error struct {
	Kind        Kind
	Description string
	Err         error
}

// New returns an *Error with the given kind and description.
func New(kind Kind, description string) *Error {
	return &Error{Kind: kind, Description: description}
}

// Wrap returns an *Error that records cause for logging.
func Wrap(kind Kind, description string, cause error) *Error {
	return &Error{Kind: kind, Description: description, Err: cause}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status of the error's kind.
func (e *Error) Status() int { return e.Kind.Status() }

// Is matches any *Error with the same Kind, so errors.Is(err, apperror.New(k, ""))
// works regardless of description.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind from err, or Internal when err carries none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}
