package store

import (
	"fmt"
	"time"

	"github.com/roach88/turing/internal/decide"
	"github.com/roach88/turing/internal/engine"
	"github.com/roach88/turing/internal/ir"
)

// DecisionRecord is a persisted composite decision.
type DecisionRecord struct {
	Seq           int64         `json:"seq"`
	ID            string        `json:"id"`
	Input         string        `json:"input"`
	Accepted      bool          `json:"accepted"`
	Elapsed       time.Duration `json:"elapsed_ns"`
	EngineVersion string        `json:"engine_version"`
	Runs          []RunRecord   `json:"runs"`
}

// RunRecord is one machine's run within a decision.
type RunRecord struct {
	ID             string        `json:"id"`
	DecisionID     string        `json:"decision_id"`
	Machine        string        `json:"machine"`
	Input          string        `json:"input"`
	Accepted       bool          `json:"accepted"`
	FinalState     ir.State      `json:"final_state"`
	Steps          int           `json:"steps"`
	Trace          []ir.State    `json:"trace"`
	TraceHash      string        `json:"trace_hash"`
	FinalTape      string        `json:"final_tape"`
	Head           int           `json:"head"`
	DefinitionHash string        `json:"definition_hash"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// NewDecisionRecord converts a decision into a record, drawing one id for
// the decision and one per run from ids. Seq is assigned on write.
func NewDecisionRecord(ids engine.IDGenerator, d *decide.Decision) (DecisionRecord, error) {
	rec := DecisionRecord{
		ID:            ids.Generate(),
		Input:         d.Input,
		Accepted:      d.Accepted,
		Elapsed:       d.Elapsed,
		EngineVersion: ir.EngineVersion,
		Runs:          make([]RunRecord, 0, len(d.Runs)),
	}

	for _, r := range d.Runs {
		traceHash, err := ir.TraceHash(r.Trace)
		if err != nil {
			return DecisionRecord{}, fmt.Errorf("record run %s: %w", r.Machine, err)
		}
		rec.Runs = append(rec.Runs, RunRecord{
			ID:             ids.Generate(),
			DecisionID:     rec.ID,
			Machine:        r.Machine,
			Input:          r.Input,
			Accepted:       r.Accepted,
			FinalState:     r.FinalState,
			Steps:          r.Steps,
			Trace:          r.Trace,
			TraceHash:      traceHash,
			FinalTape:      r.Tape,
			Head:           r.Head,
			DefinitionHash: r.DefinitionHash,
			Elapsed:        r.Elapsed,
		})
	}

	return rec, nil
}
