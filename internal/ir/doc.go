// Package ir provides the immutable data types shared by every layer of the
// Turing machine simulator: symbols, states, moves, transition tables and
// machine definitions.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Transition tables are built once and never mutated
//   - At most one transition per (state, symbol) key (determinism)
//   - Table lookups report "no move defined" as a value, never as an error
//   - Definition hashes use canonical JSON so they are stable across runs
package ir
