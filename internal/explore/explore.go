// Package explore enumerates binary strings and reports which ones a
// decider accepts.
package explore

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/turing/internal/decide"
)

// DefaultMaxLen is the default longest candidate length.
const DefaultMaxLen = 6

// Options controls an exploration.
type Options struct {
	// MaxLen is the longest candidate length. Zero means DefaultMaxLen.
	MaxLen int

	// Workers bounds concurrent decisions. Zero means runtime.NumCPU().
	Workers int

	// Logger receives progress. Nil means slog.Default().
	Logger *slog.Logger
}

// Report is the outcome of an exploration.
type Report struct {
	MaxLen     int           `json:"max_len"`
	Candidates int           `json:"candidates"`
	Accepted   []string      `json:"accepted"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Candidates returns every binary string of length 1..maxLen in BFS order:
// by length, then lexicographically with '0' < '1'.
func Candidates(maxLen int) []string {
	var out []string
	frontier := []string{""}
	for n := 1; n <= maxLen; n++ {
		next := make([]string, 0, 2*len(frontier))
		for _, prefix := range frontier {
			next = append(next, prefix+"0", prefix+"1")
		}
		out = append(out, next...)
		frontier = next
	}
	return out
}

// Explore decides every candidate of length 1..MaxLen.
//
// Accepted strings are reported in candidate order regardless of which
// worker finished first. The first decision error cancels the exploration
// and is returned; no partial report is produced.
func Explore(ctx context.Context, decider *decide.Decider, opts Options) (*Report, error) {
	if opts.MaxLen <= 0 {
		opts.MaxLen = DefaultMaxLen
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	start := time.Now()
	candidates := Candidates(opts.MaxLen)
	accepted := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, input := range candidates {
		i, input := i, input
		g.Go(func() error {
			decision, err := decider.Decide(gctx, input)
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}
			accepted[i] = decision.Accepted
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		MaxLen:     opts.MaxLen,
		Candidates: len(candidates),
		Accepted:   []string{},
		Elapsed:    time.Since(start),
	}
	for i, ok := range accepted {
		if ok {
			report.Accepted = append(report.Accepted, candidates[i])
		}
	}

	opts.Logger.Info("exploration complete",
		"max_len", report.MaxLen,
		"candidates", report.Candidates,
		"accepted", len(report.Accepted),
		"workers", opts.Workers,
	)

	return report, nil
}
