// Package dbresult implements the value-or-error sum type used by every
// non-throwing operation in the library, and the single generic "throwing"
// derivation point (Must) that unwraps it.
//
// Go has no exceptions, so per the spec's own design notes ("in languages
// lacking exceptions, provide only the sum-typed form") the paradigm
// contracts expose only Result[T]-returning methods; Must is how a caller
// who wants panic-on-error semantics gets them, without every interface
// method needing a duplicated throwing sibling.
package dbresult

import "github.com/godbc/godbc/dberr"

// Result is Ok(T) xor Err(*dberr.Error). The zero value is not a valid
// Result; use Ok or Err to construct one.
type Result[T any] struct {
	value T
	err   *dberr.Error
}

// Ok constructs a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err constructs a failed Result.
func Err[T any](err *dberr.Error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the Result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether the Result holds an error.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Value returns the held value, or the zero value of T if the Result is an
// error. Check IsOk first, or use Unwrap/Must if the zero value isn't safe
// to ignore.
func (r Result[T]) Value() T { return r.value }

// Error returns the held error, or nil if the Result is Ok.
func (r Result[T]) Error() *dberr.Error { return r.err }

// Unwrap returns (value, error) in the idiomatic Go shape, for callers that
// would rather not touch Result directly.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		return r.value, r.err
	}
	return r.value, nil
}

// ValueOr returns the held value, or fallback if the Result is an error.
func (r Result[T]) ValueOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Must is the library's single "throwing form" derivation point: it panics
// with the held *dberr.Error if the Result is an error, otherwise returns
// the value. Every paradigm operation's throwing behavior is this one
// function applied to the non-throwing primitive — no per-operation
// duplication.
func Must[T any](r Result[T]) T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// Unit is the T used by operations whose success carries no value.
type Unit = struct{}

// OkUnit is a convenience constructor for Result[Unit] successes.
func OkUnit() Result[Unit] { return Ok(Unit{}) }

// FromError adapts a plain (T, error) pair — typically a driver call — into
// a Result[T], wrapping a non-nil error as a *dberr.Error if it isn't
// already one.
func FromError[T any](value T, err error, code string, kind dberr.Kind, message string) Result[T] {
	if err == nil {
		return Ok(value)
	}
	if de, ok := err.(*dberr.Error); ok {
		return Err[T](de)
	}
	return Err[T](dberr.Wrap(err, code, kind, message))
}
