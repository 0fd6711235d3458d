// Package engine implements the deterministic single-tape Turing machine
// executor.
//
// A Machine owns a tape, a head position, the current state, an acceptance
// flag and the visited-state trace. It is created for one input, run once,
// and discarded.
//
// ARCHITECTURE:
//
// Step semantics:
//  1. In the accepting state: mark accepted, make no move.
//  2. Head outside the tape: fail with TapeBoundsError.
//  3. No transition for (state, symbol): halt without accepting.
//  4. Otherwise record the current state in the trace, write, change state,
//     move the head by exactly one cell.
//
// Run repeats Step until no move is made, then appends the halting state to
// the trace exactly once. A step ceiling (WithMaxSteps) turns a non-halting
// machine into a StepsExceededError instead of a hang.
//
// CRITICAL PATTERNS:
//
// Determinism:
// The same definition and input always produce the same acceptance and the
// same trace. Machines share no mutable state; a Definition may be used by
// any number of machines concurrently.
//
// Acceptance:
// accepted == (halting state == accept state). No table entry keyed on the
// accept state is ever applied.
//
// Trace:
// len(trace) == steps + 1 and trace[len-1] is the halting state.
package engine
