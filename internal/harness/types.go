package harness

import "github.com/roach88/turing/internal/ir"

// Case status values.
const (
	StatusAccept = "accept"
	StatusReject = "reject"
	StatusError  = "error"
)

// RunOutcome is one machine's verdict on a case.
type RunOutcome struct {
	Machine  string     `json:"machine"`
	Accepted bool       `json:"accepted"`
	Steps    int        `json:"steps"`
	Trace    []ir.State `json:"trace"`
}

// CaseResult is the observed outcome of one case.
type CaseResult struct {
	Input string `json:"input"`

	// Status is "accept", "reject" or "error".
	Status string `json:"status"`

	// ErrorCode is the engine error code when Status is "error".
	ErrorCode string `json:"error,omitempty"`

	// Runs holds one outcome per machine: a single entry for a
	// single-machine scenario, one per composite member otherwise.
	Runs []RunOutcome `json:"runs,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Machine is the evaluated machine's name, or "composite".
	Machine string `json:"machine"`

	// Pass indicates overall test success.
	// True if every case and assertion matched.
	Pass bool `json:"pass"`

	// Cases holds the observed outcome of every case, in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors contains mismatch messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
