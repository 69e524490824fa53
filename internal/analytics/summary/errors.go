package summary

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for empty samples, samples too small for the
	// requested operation, non-finite values and non-positive parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTypeMismatch is returned when a sample or a companion parameter is
	// not numeric.
	ErrTypeMismatch = errors.New("type mismatch")
)

// InputError records which operation rejected its input and why.
// Kind is ErrInvalidInput or ErrTypeMismatch, so errors.Is matches either.
type InputError struct {
	Op     string
	Kind   error
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

// InvalidInputf returns an *InputError of kind ErrInvalidInput for op
func InvalidInputf(op, format string, args ...interface{}) error {
	return &InputError{Op: op, Kind: ErrInvalidInput, Reason: fmt.Sprintf(format, args...)}
}

// TypeMismatchf returns an *InputError of kind ErrTypeMismatch for op
func TypeMismatchf(op, format string, args ...interface{}) error {
	return &InputError{Op: op, Kind: ErrTypeMismatch, Reason: fmt.Sprintf(format, args...)}
}
