// Package common holds the error taxonomy shared by every layer. Components
// return these kinds; only the HTTP layer turns them into status codes.
package common

import "errors"

// Kind classifies a failure by what the caller can do about it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a sentinel carrying a kind and a message that is safe to show to clients.
type Error struct {
	kind    Kind
	message string
}

// NewError creates a kinded sentinel error.
func NewError(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string { return e.message }

// Kind reports the error's classification.
func (e *Error) Kind() Kind { return e.kind }

type kinded interface {
	error
	Kind() Kind
}

var (
	ErrValidation   = NewError(KindValidation, "validation failed")
	ErrUnauthorized = NewError(KindAuthentication, "unauthorized")
	ErrForbidden    = NewError(KindForbidden, "forbidden")
	ErrNotFound     = NewError(KindNotFound, "not found")
	ErrInternal     = NewError(KindInternal, "internal error")
)

// Describe returns the kind and public message of the first kinded error in
// err's chain. Errors without a kind are internal and get no public message.
func Describe(err error) (Kind, string) {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind(), k.Error()
	}
	return KindInternal, ""
}

// KindOf is Describe without the message.
func KindOf(err error) Kind {
	kind, _ := Describe(err)
	return kind
}
