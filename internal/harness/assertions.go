package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/turing/internal/testutil"
)

// Assertion type constants.
const (
	AssertOracle          = "oracle"
	AssertTraceInvariants = "trace_invariants"
	AssertStepsAtMost     = "steps_at_most"
)

// Oracle names for AssertOracle.
const (
	OraclePalindrome       = "palindrome"
	OracleDiv3             = "div3"
	OraclePalindromeAndDiv = "palindrome_and_div3"
)

var oracles = map[string]func(string) bool{
	OraclePalindrome: testutil.IsPalindrome,
	OracleDiv3:       testutil.DivisibleBy3,
	OraclePalindromeAndDiv: func(s string) bool {
		return testutil.IsPalindrome(s) && testutil.DivisibleBy3(s)
	},
}

// Assertion validates behaviour beyond the listed cases.
type Assertion struct {
	// Type specifies the assertion type:
	// - "oracle": every binary string up to max_len is decided like the oracle
	// - "trace_invariants": every run's trace ends in its halting state and
	//   has one entry per step plus one
	// - "steps_at_most": no run in the cases took more than count steps
	Type string `yaml:"type"`

	// Oracle names the reference predicate (used by oracle).
	Oracle string `yaml:"oracle,omitempty"`

	// MaxLen is the longest input checked (used by oracle).
	MaxLen int `yaml:"max_len,omitempty"`

	// Count is the step bound (used by steps_at_most).
	Count int `yaml:"count,omitempty"`
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Input    string // Offending input, if any
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (input %q)\n", e.Type, e.Input)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertOracle:
		if _, ok := oracles[a.Oracle]; !ok {
			return fmt.Errorf("assertions[%d]: unknown oracle %q", index, a.Oracle)
		}
		if a.MaxLen <= 0 {
			return fmt.Errorf("assertions[%d]: max_len must be positive for oracle", index)
		}
	case AssertTraceInvariants:
	case AssertStepsAtMost:
		if a.Count <= 0 {
			return fmt.Errorf("assertions[%d]: count must be positive for steps_at_most", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// evaluateAssertions checks every assertion and returns one message per failure.
func evaluateAssertions(ctx context.Context, ev *evaluator, result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertOracle:
			err = assertOracle(ctx, ev, a)
		case AssertTraceInvariants:
			err = assertTraceInvariants(ev, result)
		case AssertStepsAtMost:
			err = assertStepsAtMost(result, a)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertOracle decides every binary string of length 0..MaxLen and compares
// against the oracle. Stops at the first disagreement.
func assertOracle(ctx context.Context, ev *evaluator, a Assertion) error {
	oracle := oracles[a.Oracle]
	for _, input := range testutil.BinaryStrings(0, a.MaxLen) {
		got := ev.evaluate(ctx, input)
		want := StatusReject
		if oracle(input) {
			want = StatusAccept
		}
		if got.Status != want {
			actual := got.Status
			if got.ErrorCode != "" {
				actual += " " + got.ErrorCode
			}
			return &AssertionError{
				Type:     AssertOracle,
				Input:    input,
				Expected: fmt.Sprintf("%s (oracle %s)", want, a.Oracle),
				Actual:   actual,
			}
		}
	}
	return nil
}

// assertTraceInvariants checks the trace shape of every completed run.
func assertTraceInvariants(ev *evaluator, result *Result) error {
	for _, c := range result.Cases {
		for _, run := range c.Runs {
			if len(run.Trace) != run.Steps+1 {
				return &AssertionError{
					Type:     AssertTraceInvariants,
					Input:    c.Input,
					Expected: fmt.Sprintf("%s trace of %d states", run.Machine, run.Steps+1),
					Actual:   fmt.Sprintf("%d states", len(run.Trace)),
				}
			}
			halting := run.Trace[len(run.Trace)-1]
			if run.Accepted != (halting == ev.accept[run.Machine]) {
				return &AssertionError{
					Type:     AssertTraceInvariants,
					Input:    c.Input,
					Expected: fmt.Sprintf("%s accepted iff halting in %s", run.Machine, ev.accept[run.Machine]),
					Actual:   fmt.Sprintf("accepted=%t halting in %s", run.Accepted, halting),
				}
			}
		}
	}
	return nil
}

// assertStepsAtMost checks that no run in the cases exceeded Count steps.
func assertStepsAtMost(result *Result, a Assertion) error {
	for _, c := range result.Cases {
		for _, run := range c.Runs {
			if run.Steps > a.Count {
				return &AssertionError{
					Type:     AssertStepsAtMost,
					Input:    c.Input,
					Expected: fmt.Sprintf("%s in at most %d steps", run.Machine, a.Count),
					Actual:   fmt.Sprintf("%d steps", run.Steps),
				}
			}
		}
	}
	return nil
}
