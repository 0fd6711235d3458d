package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxSteps is the default transition ceiling per run.
// The built-in machines need O(n^2) steps for an n-symbol input; this leaves
// room for inputs of several hundred symbols.
const DefaultMaxSteps = 1_000_000

// QuotaEnforcer counts transitions for one run and enforces a ceiling.
//
// The engine has no cycle detection: a table that loops forever on some
// input is caught here instead. Exceeding the quota is fatal and is reported
// distinctly from rejection.
type QuotaEnforcer struct {
	maxSteps int // 0 or negative disables the ceiling
	current  int
}

// NewQuotaEnforcer creates a quota enforcer with the given limit.
// A limit of 0 or less means unbounded.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check records one transition and validates against the limit.
// Returns StepsExceededError once more than maxSteps transitions were made.
func (q *QuotaEnforcer) Check(machine string) error {
	q.current++
	if q.maxSteps > 0 && q.current > q.maxSteps {
		return &StepsExceededError{
			Machine: machine,
			Steps:   q.current,
			Limit:   q.maxSteps,
		}
	}
	return nil
}

// Current returns the number of recorded transitions.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the configured limit (0 or less means unbounded).
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError is returned when a run exceeds its step ceiling.
type StepsExceededError struct {
	Machine string // definition name
	Input   string // input being decided
	Steps   int    // transitions taken, including the one over the limit
	Limit   int    // maximum allowed transitions
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("%s: machine %s exceeded max steps on input %q: %d steps > %d limit",
		ErrCodeStepsExceeded, e.Machine, e.Input, e.Steps, e.Limit)
}

// Code returns ErrCodeStepsExceeded.
func (e *StepsExceededError) Code() RuntimeErrorCode {
	return ErrCodeStepsExceeded
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
