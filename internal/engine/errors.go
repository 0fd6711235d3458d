package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/turing/internal/ir"
)

// RuntimeErrorCode categorizes fatal run errors.
type RuntimeErrorCode string

const (
	// ErrCodeTapeBounds indicates the head left the allocated tape.
	ErrCodeTapeBounds RuntimeErrorCode = "TAPE_BOUNDS"

	// ErrCodeStepsExceeded indicates the run exceeded its step ceiling.
	ErrCodeStepsExceeded RuntimeErrorCode = "STEPS_EXCEEDED"

	// ErrCodeInvalidInput indicates the input contained a non-binary character.
	ErrCodeInvalidInput RuntimeErrorCode = "INVALID_INPUT"

	// ErrCodeCancelled indicates the run's context was cancelled.
	ErrCodeCancelled RuntimeErrorCode = "CANCELLED"

	// ErrCodeUnknown is reported for errors outside the categories above.
	ErrCodeUnknown RuntimeErrorCode = "UNKNOWN"
)

// ErrAlreadyRun is returned when Run is called on a machine that has already
// halted. Machines are single-use.
var ErrAlreadyRun = errors.New("machine has already run")

// TapeBoundsError reports a read at a head position outside the tape.
//
// The tape is the input plus one blank sentinel and never grows, so a machine
// whose table walks off either end fails here instead of wrapping or
// reading garbage.
type TapeBoundsError struct {
	Machine string   // definition name
	State   ir.State // state in which the read was attempted
	Head    int      // offending head position
	TapeLen int      // allocated tape length
	Steps   int      // transitions executed before the violation
}

// Error implements the error interface.
func (e *TapeBoundsError) Error() string {
	return fmt.Sprintf("%s: machine %s read at head %d outside tape [0, %d) in state %s after %d steps",
		ErrCodeTapeBounds, e.Machine, e.Head, e.TapeLen, e.State, e.Steps)
}

// Code returns ErrCodeTapeBounds.
func (e *TapeBoundsError) Code() RuntimeErrorCode {
	return ErrCodeTapeBounds
}

// IsTapeBoundsError returns true if the error is a TapeBoundsError.
// Uses errors.As to handle wrapped errors.
func IsTapeBoundsError(err error) bool {
	var te *TapeBoundsError
	return errors.As(err, &te)
}

// IsInputError returns true if the error is an ir.InputError.
func IsInputError(err error) bool {
	var ie *ir.InputError
	return errors.As(err, &ie)
}

// ErrorCode maps an error returned by this package (possibly wrapped) onto
// its RuntimeErrorCode. Returns "" for a nil error.
func ErrorCode(err error) RuntimeErrorCode {
	switch {
	case err == nil:
		return ""
	case IsTapeBoundsError(err):
		return ErrCodeTapeBounds
	case IsStepsExceededError(err):
		return ErrCodeStepsExceeded
	case IsInputError(err):
		return ErrCodeInvalidInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeCancelled
	default:
		return ErrCodeUnknown
	}
}
