// Package service holds the library's business rules.  Every operation
// returns either a plain error (an infrastructure failure) or an *Error
// whose Kind tells the HTTP layer which status to use.
package service

import (
	"errors"
	"fmt"
)

// Error kinds.  Compare with errors.Is.
var (
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("unauthorized")
)

// Error is a rule violation with a message meant for the end user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is lets errors.Is(err, ErrConflict) match an *Error of that kind.
func (e *Error) Is(target error) bool { return e.Kind == target }

func validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func conflict(format string, a ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, a...)}
}

func notFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func unauthorized(msg string) error { return &Error{Kind: ErrAuth, Message: msg} }
