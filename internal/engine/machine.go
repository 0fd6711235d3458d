package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/turing/internal/ir"
)

// ctxCheckInterval is how many transitions run between context polls.
const ctxCheckInterval = 1024

// Machine is one execution of a Definition over one input.
//
// Thread-safety model:
//   - A Machine is owned by exactly one goroutine
//   - The Definition it runs is immutable and may be shared
//
// INVARIANTS:
//   - tape length is len(input)+1 and never changes
//   - head moves by exactly one cell per transition
//   - len(trace) == steps while running; steps+1 after Run
type Machine struct {
	def      ir.Definition
	input    string
	tape     []ir.Symbol
	head     int
	state    ir.State
	accepted bool
	trace    []ir.State
	steps    int
	ran      bool
}

// New creates a machine for def over input.
// The input must be a string over {0, 1}; anything else returns *ir.InputError.
// The tape is the input followed by one blank sentinel, the head starts at 0
// and the state at def.Start.
func New(def ir.Definition, input string) (*Machine, error) {
	if err := ir.ValidateInput(input); err != nil {
		return nil, err
	}

	tape := make([]ir.Symbol, len(input)+1)
	for i := 0; i < len(input); i++ {
		tape[i] = ir.Symbol(input[i])
	}
	tape[len(input)] = ir.Blank

	return &Machine{
		def:   def,
		input: input,
		tape:  tape,
		state: def.Start,
		trace: make([]ir.State, 0, len(tape)),
	}, nil
}

// Step executes a single transition.
//
// Returns true if a transition was applied. Returns false when the machine
// is in the accepting state (accepted becomes true) or when no transition is
// defined for the current state and symbol (the machine rejects). Neither
// halting case mutates the tape, head or state.
//
// Returns *TapeBoundsError if the head is outside the tape.
func (m *Machine) Step() (bool, error) {
	if m.state == m.def.Accept {
		m.accepted = true
		return false, nil
	}

	if m.head < 0 || m.head >= len(m.tape) {
		return false, &TapeBoundsError{
			Machine: m.def.Name,
			State:   m.state,
			Head:    m.head,
			TapeLen: len(m.tape),
			Steps:   m.steps,
		}
	}

	tr, ok := m.def.Table.Lookup(m.state, m.tape[m.head])
	if !ok {
		return false, nil
	}

	m.trace = append(m.trace, m.state)
	m.tape[m.head] = tr.Write
	m.state = tr.Next
	m.head += tr.Move.Delta()
	m.steps++
	return true, nil
}

// RunOption configures a single Run.
type RunOption func(*runConfig)

type runConfig struct {
	maxSteps int
	logger   *slog.Logger
}

// WithMaxSteps sets the transition ceiling for the run.
//
// Default: DefaultMaxSteps. Use 0 or a negative value to disable the ceiling.
// Use a small value such as WithMaxSteps(10) to test non-halting tables.
func WithMaxSteps(maxSteps int) RunOption {
	return func(c *runConfig) {
		c.maxSteps = maxSteps
	}
}

// WithLogger sets the logger for run diagnostics. Default: slog.Default().
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Run steps the machine until it halts, then appends the halting state to
// the trace.
//
// Returns the run result, or:
//   - ErrAlreadyRun if the machine was run before
//   - *TapeBoundsError if the head left the tape
//   - *StepsExceededError if the step ceiling was exceeded
//   - the context error if ctx was cancelled
//
// No partial result is returned with an error.
func (m *Machine) Run(ctx context.Context, opts ...RunOption) (*Result, error) {
	if m.ran {
		return nil, ErrAlreadyRun
	}
	m.ran = true

	cfg := runConfig{maxSteps: DefaultMaxSteps, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", m.def.Name, err)
	}

	start := time.Now()
	quota := NewQuotaEnforcer(cfg.maxSteps)

	for {
		moved, err := m.Step()
		if err != nil {
			cfg.logger.Debug("machine failed",
				"machine", m.def.Name,
				"input", m.input,
				"steps", m.steps,
				"error", err,
			)
			return nil, err
		}
		if !moved {
			break
		}

		if err := quota.Check(m.def.Name); err != nil {
			if se, ok := err.(*StepsExceededError); ok {
				se.Input = m.input
			}
			cfg.logger.Warn("max steps exceeded",
				"machine", m.def.Name,
				"input", m.input,
				"limit", quota.MaxSteps(),
			)
			return nil, err
		}

		if m.steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("run %s: %w", m.def.Name, err)
			}
		}
	}

	m.trace = append(m.trace, m.state)

	hash, err := m.def.Hash()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Machine:        m.def.Name,
		Input:          m.input,
		Accepted:       m.accepted,
		FinalState:     m.state,
		Trace:          m.Trace(),
		Steps:          m.steps,
		Tape:           m.TapeString(),
		Head:           m.head,
		Elapsed:        time.Since(start),
		DefinitionHash: hash,
	}

	cfg.logger.Debug("machine halted",
		"machine", res.Machine,
		"input", res.Input,
		"accepted", res.Accepted,
		"final_state", res.FinalState,
		"steps", res.Steps,
	)

	return res, nil
}

// Accepted reports whether the machine has reached its accepting state.
func (m *Machine) Accepted() bool {
	return m.accepted
}

// State returns the current state.
func (m *Machine) State() ir.State {
	return m.state
}

// Head returns the current head position.
func (m *Machine) Head() int {
	return m.head
}

// Steps returns the number of transitions executed so far.
func (m *Machine) Steps() int {
	return m.steps
}

// Trace returns a copy of the visited-state trace.
func (m *Machine) Trace() []ir.State {
	out := make([]ir.State, len(m.trace))
	copy(out, m.trace)
	return out
}

// TapeString renders the tape with blanks as '_'.
func (m *Machine) TapeString() string {
	var sb strings.Builder
	sb.Grow(len(m.tape))
	for _, s := range m.tape {
		sb.WriteByte(byte(s))
	}
	return sb.String()
}
