package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so the transport boundary can map it
// to a status code without inspecting messages.
type ErrorKind string

const (
	KindConflict           ErrorKind = "conflict"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindTokenExpired       ErrorKind = "token_expired"
	KindInternal           ErrorKind = "internal"
)

// Error is a typed domain failure. Message is safe to show to callers.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches another domain error by kind. A target with an empty message
// acts as a kind-only matcher.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// E builds a typed domain failure with a formatted message.
func E(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or KindInternal for untyped errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Common failures, usable as errors.Is targets.
var (
	ErrAccountNotFound      = &Error{Kind: KindNotFound, Message: "account not found"}
	ErrVerificationNotFound = &Error{Kind: KindNotFound, Message: "invalid token provided"}
	ErrInvalidCredentials   = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrTokenExpired         = &Error{Kind: KindTokenExpired, Message: "your token has expired"}
	ErrRefreshExpired       = &Error{Kind: KindForbidden, Message: "refresh token expired"}
)
