package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/turing/internal/compiler"
	"github.com/roach88/turing/internal/decide"
	"github.com/roach88/turing/internal/engine"
	"github.com/roach88/turing/internal/ir"
	"github.com/roach88/turing/internal/machines"
)

// errorCodes maps scenario error kinds onto engine error codes.
var errorCodes = map[string]engine.RuntimeErrorCode{
	ErrorTapeBounds:    engine.ErrCodeTapeBounds,
	ErrorStepsExceeded: engine.ErrCodeStepsExceeded,
	ErrorInvalidInput:  engine.ErrCodeInvalidInput,
}

// evaluator decides single inputs for a scenario.
// Exactly one of def and decider is set.
type evaluator struct {
	name     string
	def      *ir.Definition
	decider  *decide.Decider
	maxSteps int
	logger   *slog.Logger
	accept   map[string]ir.State // machine name -> accept state
}

func newEvaluator(s *Scenario) (*evaluator, error) {
	ev := &evaluator{
		maxSteps: engine.DefaultMaxSteps,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
		accept:   make(map[string]ir.State),
	}
	if s.MaxSteps > 0 {
		ev.maxSteps = s.MaxSteps
	}

	switch {
	case s.Machine == CompositeMachine:
		ev.name = CompositeMachine
		ev.decider = decide.Default(decide.WithMaxSteps(ev.maxSteps), decide.WithLogger(ev.logger))
		for _, def := range ev.decider.Definitions() {
			ev.accept[def.Name] = def.Accept
		}
		return ev, nil

	case s.MachineFile != "":
		defs, err := compiler.LoadFile(s.MachineFile)
		if err != nil {
			return nil, err
		}
		def, err := pickDefinition(defs, s.Machine)
		if err != nil {
			return nil, err
		}
		ev.def = &def

	default:
		def, err := machines.ByName(s.Machine)
		if err != nil {
			return nil, err
		}
		ev.def = &def
	}

	ev.name = ev.def.Name
	ev.accept[ev.def.Name] = ev.def.Accept
	return ev, nil
}

// pickDefinition selects name from defs, or the only definition if name is empty.
func pickDefinition(defs []ir.Definition, name string) (ir.Definition, error) {
	if name == "" {
		if len(defs) != 1 {
			return ir.Definition{}, fmt.Errorf("machine file declares %d machines; set machine", len(defs))
		}
		return defs[0], nil
	}
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return ir.Definition{}, fmt.Errorf("machine %q not declared in machine file", name)
}

// evaluate runs input and records the outcome. Engine errors become an
// "error" status with their code rather than a Go error.
func (e *evaluator) evaluate(ctx context.Context, input string) CaseResult {
	cr := CaseResult{Input: input}

	var runs []*engine.Result
	accepted := false
	if e.decider != nil {
		decision, err := e.decider.Decide(ctx, input)
		if err != nil {
			cr.Status = StatusError
			cr.ErrorCode = string(engine.ErrorCode(err))
			return cr
		}
		runs, accepted = decision.Runs, decision.Accepted
	} else {
		res, err := engine.Execute(ctx, *e.def, input,
			engine.WithMaxSteps(e.maxSteps),
			engine.WithLogger(e.logger),
		)
		if err != nil {
			cr.Status = StatusError
			cr.ErrorCode = string(engine.ErrorCode(err))
			return cr
		}
		runs, accepted = []*engine.Result{res}, res.Accepted
	}

	cr.Status = StatusReject
	if accepted {
		cr.Status = StatusAccept
	}
	for _, r := range runs {
		cr.Runs = append(cr.Runs, RunOutcome{
			Machine:  r.Machine,
			Accepted: r.Accepted,
			Steps:    r.Steps,
			Trace:    r.Trace,
		})
	}
	return cr
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Resolve the machine (built-in, composite, or compiled from machine_file)
// 2. Evaluate every case in order, recording mismatches
// 3. Evaluate scenario-wide assertions
// 4. Return result with pass/fail, observed outcomes, and errors
//
// Mismatches are reported in the result; a Go error means the scenario could
// not be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	ev, err := newEvaluator(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	ctx := context.Background()
	result := NewResult()
	result.Machine = ev.name

	for i, c := range scenario.Cases {
		cr := ev.evaluate(ctx, c.Input)
		result.Cases = append(result.Cases, cr)
		for _, msg := range compareCase(i, c, cr) {
			result.AddError(msg)
		}
	}

	for _, msg := range evaluateAssertions(ctx, ev, result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// compareCase returns one message per difference between expected and observed.
func compareCase(index int, c Case, got CaseResult) []string {
	prefix := fmt.Sprintf("cases[%d] (input %q)", index, c.Input)
	var errs []string

	if got.Status != c.Expect {
		msg := fmt.Sprintf("%s: expected %s, got %s", prefix, c.Expect, got.Status)
		if got.ErrorCode != "" {
			msg += " " + got.ErrorCode
		}
		return append(errs, msg)
	}

	if c.Expect == StatusError && c.Error != "" {
		if want := string(errorCodes[c.Error]); got.ErrorCode != want {
			errs = append(errs, fmt.Sprintf("%s: expected error %s, got %s", prefix, want, got.ErrorCode))
		}
	}

	if len(c.Trace) > 0 && len(got.Runs) == 1 {
		trace := make([]string, len(got.Runs[0].Trace))
		for i, s := range got.Runs[0].Trace {
			trace[i] = string(s)
		}
		if !slices.Equal(trace, c.Trace) {
			errs = append(errs, fmt.Sprintf("%s: expected trace %v, got %v", prefix, c.Trace, trace))
		}
	}

	machinesInOrder := make([]string, 0, len(c.Runs))
	for m := range c.Runs {
		machinesInOrder = append(machinesInOrder, m)
	}
	slices.Sort(machinesInOrder)
	for _, m := range machinesInOrder {
		want := c.Runs[m]
		idx := slices.IndexFunc(got.Runs, func(r RunOutcome) bool { return r.Machine == m })
		if idx < 0 {
			errs = append(errs, fmt.Sprintf("%s: no run for machine %s", prefix, m))
			continue
		}
		status := StatusReject
		if got.Runs[idx].Accepted {
			status = StatusAccept
		}
		if status != want {
			errs = append(errs, fmt.Sprintf("%s: expected %s to %s, got %s", prefix, m, want, status))
		}
	}

	return errs
}
