// Package apperr defines the error taxonomy shared by all storefront
// services. Handlers map kinds to HTTP status codes; app code wraps
// downstream failures into a kind instead of leaking transport errors.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation decisions.
type Kind int

const (
	// KindUnknown is the zero value for errors that carry no kind.
	KindUnknown Kind = iota
	// KindNotFound: the referenced product or order does not exist.
	KindNotFound
	// KindInvalidArgument: malformed payload or out-of-range value.
	KindInvalidArgument
	// KindUnauthenticated: webhook signature verification failed.
	KindUnauthenticated
	// KindUnavailable: a downstream call failed or timed out; retryable.
	KindUnavailable
	// KindConflict is reserved; nothing raises it today.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnavailable:
		return "unavailable"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a kinded error. It wraps an optional cause so errors.Is/As
// still see the original failure.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a kinded error with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an existing error.
// A nil cause yields nil so call sites can wrap unconditionally.
func Wrap(kind Kind, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf reports the kind of err, walking the wrap chain.
// Errors without a kind report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUnavailable reports whether err is a KindUnavailable error.
func IsUnavailable(err error) bool { return KindOf(err) == KindUnavailable }
