package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteDecision inserts a decision and all of its runs in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same decision
// twice leaves the first copy untouched and returns nil.
//
// Each run's trace is serialized to canonical JSON per RFC 8785.
func (s *Store) WriteDecision(ctx context.Context, rec DecisionRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write decision: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO decisions
		(id, input, accepted, elapsed_ns, engine_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Input,
		rec.Accepted,
		int64(rec.Elapsed),
		rec.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("write decision: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write decision: rows affected: %w", err)
	}
	if inserted == 0 {
		return nil
	}

	for _, run := range rec.Runs {
		if err := writeRun(ctx, tx, rec.ID, run); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write decision: commit: %w", err)
	}
	return nil
}

// writeRun inserts one run inside the decision's transaction.
// The run's DecisionID is forced to decisionID.
func writeRun(ctx context.Context, tx *sql.Tx, decisionID string, run RunRecord) error {
	traceJSON, err := marshalTrace(run.Trace)
	if err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, decision_id, machine, input, accepted, final_state, steps, trace, trace_hash,
		 final_tape, head, definition_hash, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		decisionID,
		run.Machine,
		run.Input,
		run.Accepted,
		string(run.FinalState),
		run.Steps,
		traceJSON,
		run.TraceHash,
		run.FinalTape,
		run.Head,
		run.DefinitionHash,
		int64(run.Elapsed),
	)
	if err != nil {
		return fmt.Errorf("write run %s: %w", run.ID, err)
	}
	return nil
}
