package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/turing/internal/ir"
)

// ReadDecision retrieves a single decision and its runs by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadDecision(ctx context.Context, id string) (DecisionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, input, accepted, elapsed_ns, engine_version
		FROM decisions
		WHERE id = ?
	`, id)

	rec, err := scanDecision(row)
	if err != nil {
		return DecisionRecord{}, err
	}

	rec.Runs, err = s.ReadRuns(ctx, rec.ID)
	if err != nil {
		return DecisionRecord{}, err
	}
	return rec, nil
}

// ListDecisions returns decisions with their runs, ordered by seq ASC.
// An empty input lists every decision; limit <= 0 means no limit.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListDecisions(ctx context.Context, input string, limit int) ([]DecisionRecord, error) {
	q := Query{Limit: limit}
	if input != "" {
		q.Filter = Equals{Column: "input", Value: input}
	}
	return s.FindDecisions(ctx, q)
}

// FindDecisions returns the decisions matching q with their runs, ordered by
// seq ASC.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) FindDecisions(ctx context.Context, q Query) ([]DecisionRecord, error) {
	query, args, err := compileQuery(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}

	decisions := []DecisionRecord{}
	for rows.Next() {
		rec, err := scanDecision(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		decisions = append(decisions, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	// Close before loading runs: the pool holds a single connection.
	rows.Close()

	for i := range decisions {
		decisions[i].Runs, err = s.ReadRuns(ctx, decisions[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return decisions, nil
}

// ReadRuns returns the runs of a decision.
// Results are ordered deterministically: ORDER BY machine ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the decision has no runs.
func (s *Store) ReadRuns(ctx context.Context, decisionID string) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, decision_id, machine, input, accepted, final_state, steps, trace, trace_hash,
		       final_tape, head, definition_hash, elapsed_ns
		FROM runs
		WHERE decision_id = ?
		ORDER BY machine ASC, id COLLATE BINARY ASC
	`, decisionID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(row scanner) (DecisionRecord, error) {
	var (
		rec     DecisionRecord
		elapsed int64
	)
	err := row.Scan(&rec.Seq, &rec.ID, &rec.Input, &rec.Accepted, &elapsed, &rec.EngineVersion)
	if err == sql.ErrNoRows {
		return DecisionRecord{}, err
	}
	if err != nil {
		return DecisionRecord{}, fmt.Errorf("scan decision: %w", err)
	}
	rec.Elapsed = time.Duration(elapsed)
	return rec, nil
}

func scanRun(row scanner) (RunRecord, error) {
	var (
		run        RunRecord
		finalState string
		traceJSON  string
		elapsed    int64
	)
	err := row.Scan(
		&run.ID,
		&run.DecisionID,
		&run.Machine,
		&run.Input,
		&run.Accepted,
		&finalState,
		&run.Steps,
		&traceJSON,
		&run.TraceHash,
		&run.FinalTape,
		&run.Head,
		&run.DefinitionHash,
		&elapsed,
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	run.Trace, err = unmarshalTrace(traceJSON)
	if err != nil {
		return RunRecord{}, err
	}
	run.FinalState = ir.State(finalState)
	run.Elapsed = time.Duration(elapsed)
	return run, nil
}
