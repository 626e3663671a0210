// Package errs defines the error-kind taxonomy shared across ped's
// subsystems so callers can branch on failure class without string
// matching.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purposes of the recovery policy in
// the editor's error handling design: local recovery (surface to the
// echo row, state unchanged) versus a clean startup exit.
type Kind int

const (
	Internal Kind = iota
	Io
	ParseConfig
	ParseSyntax
	ParseRegex
	Readonly
	NotFound
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case ParseConfig:
		return "parse(config)"
	case ParseSyntax:
		return "parse(syntax)"
	case ParseRegex:
		return "parse(regex)"
	case Readonly:
		return "readonly"
	case NotFound:
		return "not-found"
	case Cancelled:
		return "cancelled"
	default:
		return "internal"
	}
}

// Error wraps an underlying error with a Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a *Error of the given kind.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a *Error of the given kind from a format string.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err (or one it wraps) has the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// ErrReadonly is the sentinel condition for mutation on a readonly buffer.
var ErrReadonly = New(Readonly, "", errors.New("buffer is readonly"))

// ErrCancelled is the sentinel condition for a cancelled question or search.
var ErrCancelled = New(Cancelled, "", errors.New("cancelled"))
