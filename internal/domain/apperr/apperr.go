// Package apperr defines the typed errors every service signals failure
// with. An Error carries a message and a Kind; the HTTP layer maps the
// Kind to a transport status code and nothing else inspects it.
package apperr

import "errors"

// Kind classifies a failure independently of its message.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindInvalidTransition
	KindInvalidState
	KindUnauthorized
	KindForbidden
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets sentinel comparisons like errors.Is(err, apperr.NotFound("x"))
// match on Kind alone, which keeps tests independent of exact messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func NotFound(msg string) *Error          { return New(KindNotFound, msg) }
func Validation(msg string) *Error        { return New(KindValidation, msg) }
func InvalidTransition(msg string) *Error { return New(KindInvalidTransition, msg) }
func InvalidState(msg string) *Error      { return New(KindInvalidState, msg) }
func Unauthorized(msg string) *Error      { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error         { return New(KindForbidden, msg) }
func Conflict(msg string) *Error          { return New(KindConflict, msg) }
func Internal(msg string, err error) *Error {
	return Wrap(KindInternal, msg, err)
}

// IsKind reports whether err carries the given classification anywhere
// in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// KindOf extracts the Kind from any error chain; unknown errors are
// treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
