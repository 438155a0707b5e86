package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport boundary.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindNotFound
	KindForbidden
	KindStorage
	KindHashing
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindStorage:
		return "storage"
	case KindHashing:
		return "hashing"
	default:
		return "internal"
	}
}

// Error is a tagged application error. Message is safe to show to clients
// for every kind except Storage, Hashing and Internal.
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

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrInvalidInput       = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "username or email already registered"}
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "incorrect username or password"}
	ErrInvalidToken       = &Error{Kind: KindAuth, Message: "invalid token"}
	ErrUserNotFound       = &Error{Kind: KindAuth, Message: "user not found"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrPostNotFound       = &Error{Kind: KindNotFound, Message: "post not found"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "not authorized"}
)

// ValidationError reports malformed input. It matches ErrInvalidInput under errors.Is.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// StorageError tags a persistence failure. op names the failed operation.
func StorageError(op string, err error) error {
	return &Error{Kind: KindStorage, Message: op, Err: err}
}

// HashingError tags an unexpected password hashing failure.
func HashingError(op string, err error) error {
	return &Error{Kind: KindHashing, Message: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns the client-facing text of the first *Error in err's chain.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindStorage, KindHashing, KindInternal:
			return "internal server error"
		}
		if e == ErrInvalidInput {
			return err.Error()
		}
		return e.Message
	}
	return "internal server error"
}
