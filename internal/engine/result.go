package engine

import (
	"context"
	"time"

	"github.com/roach88/turing/internal/ir"
)

// Result is the outcome of one completed run.
//
// Accepted and Trace are the decision and its diagnostic path. Elapsed is
// wall-clock time and is the only field that differs between two runs of the
// same definition over the same input.
type Result struct {
	Machine        string        `json:"machine"`
	Input          string        `json:"input"`
	Accepted       bool          `json:"accepted"`
	FinalState     ir.State      `json:"final_state"`
	Trace          []ir.State    `json:"trace"`
	Steps          int           `json:"steps"`
	Tape           string        `json:"tape"`
	Head           int           `json:"head"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	DefinitionHash string        `json:"definition_hash"`
}

// Status returns "accept" or "reject".
func (r *Result) Status() string {
	if r.Accepted {
		return "accept"
	}
	return "reject"
}

// Execute is shorthand for New followed by Run.
func Execute(ctx context.Context, def ir.Definition, input string, opts ...RunOption) (*Result, error) {
	m, err := New(def, input)
	if err != nil {
		return nil, err
	}
	return m.Run(ctx, opts...)
}
