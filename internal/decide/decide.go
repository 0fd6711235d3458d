// Package decide runs several machines over the same input and combines
// their verdicts.
//
// The composite accepts an input only if every machine accepts it. Each
// machine runs on its own goroutine with its own tape; the goroutines share
// only the immutable definitions. Every run completes, so every trace is
// available to the caller even when an earlier machine already rejected.
package decide

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/turing/internal/engine"
	"github.com/roach88/turing/internal/ir"
	"github.com/roach88/turing/internal/machines"
)

// Decision is the composite verdict for one input.
type Decision struct {
	Input    string           `json:"input"`
	Accepted bool             `json:"accepted"`
	Runs     []*engine.Result `json:"runs"`
	Elapsed  time.Duration    `json:"elapsed_ns"`
}

// Run returns the result of the named machine, or nil.
func (d *Decision) Run(machine string) *engine.Result {
	for _, r := range d.Runs {
		if r.Machine == machine {
			return r
		}
	}
	return nil
}

// Decider evaluates a fixed list of definitions.
//
// A Decider holds no per-input state and is safe for concurrent use.
type Decider struct {
	defs     []ir.Definition
	maxSteps int
	logger   *slog.Logger
}

// Option configures a Decider.
type Option func(*Decider)

// WithMaxSteps sets the per-machine step ceiling. Default: engine.DefaultMaxSteps.
func WithMaxSteps(maxSteps int) Option {
	return func(d *Decider) {
		d.maxSteps = maxSteps
	}
}

// WithLogger sets the logger passed to every run. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decider) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a decider over defs, evaluated and reported in the given order.
func New(defs []ir.Definition, opts ...Option) *Decider {
	d := &Decider{
		defs:     append([]ir.Definition(nil), defs...),
		maxSteps: engine.DefaultMaxSteps,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Default returns the palindrome AND div3 decider.
func Default(opts ...Option) *Decider {
	return New(machines.All(), opts...)
}

// Definitions returns the decider's machines in evaluation order.
func (d *Decider) Definitions() []ir.Definition {
	return append([]ir.Definition(nil), d.defs...)
}

// Decide runs every machine over input in parallel.
//
// Returns *ir.InputError if input is not binary; no machine is started.
// Any engine error cancels the remaining runs and is returned without a
// partial decision.
func (d *Decider) Decide(ctx context.Context, input string) (*Decision, error) {
	if err := ir.ValidateInput(input); err != nil {
		return nil, err
	}
	if len(d.defs) == 0 {
		return nil, fmt.Errorf("decide %q: no machines configured", input)
	}

	start := time.Now()
	runs := make([]*engine.Result, len(d.defs))

	g, gctx := errgroup.WithContext(ctx)
	for i, def := range d.defs {
		i, def := i, def
		g.Go(func() error {
			res, err := engine.Execute(gctx, def, input,
				engine.WithMaxSteps(d.maxSteps),
				engine.WithLogger(d.logger),
			)
			if err != nil {
				return fmt.Errorf("decide %q: %w", input, err)
			}
			runs[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	accepted := true
	for _, r := range runs {
		accepted = accepted && r.Accepted
	}

	decision := &Decision{
		Input:    input,
		Accepted: accepted,
		Runs:     runs,
		Elapsed:  time.Since(start),
	}

	d.logger.Debug("decision",
		"input", input,
		"accepted", accepted,
		"machines", len(runs),
	)

	return decision, nil
}
