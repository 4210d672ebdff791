package emit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandler is returned by On when the handler is nil or wraps a
	// nil function.
	ErrInvalidHandler = errors.New("emit: handler must be a non-nil function")

	// ErrLimitExceeded matches every *LimitError.
	ErrLimitExceeded = errors.New("emit: handler limit exceeded")

	// ErrHandlerPanic matches every *PanicError.
	ErrHandlerPanic = errors.New("emit: handler panicked")
)

// LimitError is returned by On when a key already holds the maximum number
// of handlers.
type LimitError struct {
	Key   any
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf(
		"emit: max handlers (%d) reached for event %v; this usually means a new closure "+
			"is registered on every call instead of reusing one handler (possible memory leak)",
		e.Limit, e.Key,
	)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// AggregateError collects every handler failure of a concurrent EmitAsync.
// Errors are ordered by handler registration, not by completion.
type AggregateError struct {
	Key    any
	Errors []error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("emit: %d handler(s) failed for event %v", len(e.Errors), e.Key)
}

// Unwrap lets errors.Is and errors.As inspect each individual failure.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// PanicError is reported in place of a handler's error when the handler
// panics during EmitAsync.
type PanicError struct {
	Key   any
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("emit: handler for event %v panicked: %v", e.Key, e.Value)
}

func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

// Unwrap returns the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
