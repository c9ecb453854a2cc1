// Package domainerrors provides coded errors for the service layer.
//
// Stores return plain wrapped errors (or sentinel errors); services translate
// them into coded errors so callers can branch on the failure class without
// string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeBadRequest - the caller supplied invalid input.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound - the referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict - the operation collides with existing state.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation - the operation would break a domain invariant.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal - an infrastructure failure (storage, I/O).
	CodeInternal Code = "internal"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
// A nil cause returns nil so call sites can wrap unconditionally.
func Wrap(cause error, code Code, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Cause
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the code of the outermost coded error in the chain,
// or CodeInternal when the error carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
