package result

import "errors"

// Result holds either a value (success) or an error message (failure).
// The zero value is a failure with an empty message.
type Result[T any] struct {
	data T
	err  string
	ok   bool
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

// Err wraps a failure message.
func Err[T any](msg string) Result[T] {
	return Result[T]{err: msg}
}

// IsOk reports whether the result is a success.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Unwrap returns the value of a successful result.
// It panics with an error carrying the failure message otherwise.
func (r Result[T]) Unwrap() T {
	if !r.ok {
		panic(errors.New(r.err))
	}
	return r.data
}

// Value returns the payload and the success flag, in the comma-ok style.
func (r Result[T]) Value() (T, bool) {
	return r.data, r.ok
}

// Error returns the failure message, or nil for a successful result.
func (r Result[T]) Error() *string {
	if r.ok {
		return nil
	}
	msg := r.err
	return &msg
}

// ErrorOr returns the failure message, or def for a successful result.
func (r Result[T]) ErrorOr(def string) string {
	if r.ok {
		return def
	}
	return r.err
}

// Map transforms the value of a successful result, passing failures through.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Err[U](r.err)
	}
	return Ok(fn(r.data))
}

// From converts a Go (value, error) pair. A non-nil error becomes a failure carrying its text.
func From[T any](data T, err error) Result[T] {
	if err != nil {
		return Err[T](err.Error())
	}
	return Ok(data)
}
