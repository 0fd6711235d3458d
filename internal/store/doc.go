// Package store provides SQLite-backed durable storage for composite
// decisions and the machine runs behind them.
//
// The store is an append-only log with:
//   - Decisions: one row per composite verdict, keyed by a UUIDv7 id
//   - Runs: one row per machine per decision, carrying the full trace
//
// # Critical Patterns
//
// Deterministic Query Results
//   - Decisions are listed ORDER BY seq ASC
//   - Runs are listed ORDER BY machine ASC, id ASC COLLATE BINARY
//
// Canonical Traces
//   - Traces are stored as RFC 8785 canonical JSON arrays of state names,
//     so the same run always produces the same bytes
//
// Parameterized Filters
//   - FindDecisions compiles a Predicate tree to SQL; values are always bound
//     as ? parameters and columns are checked against an allowlist
//
// Idempotent Writes
//   - Writing a decision whose id already exists is a no-op
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
