package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/turing/internal/ir"
)

// TraceSnapshot captures every case outcome of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Machine      string       `json:"machine"`
	Cases        []CaseResult `json:"cases"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles primitives, maps and slices.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	cases := make([]any, len(s.Cases))
	for i, c := range s.Cases {
		caseMap := map[string]any{
			"input":  c.Input,
			"status": c.Status,
		}
		if c.ErrorCode != "" {
			caseMap["error"] = c.ErrorCode
		}
		if len(c.Runs) > 0 {
			runs := make([]any, len(c.Runs))
			for j, r := range c.Runs {
				runs[j] = map[string]any{
					"machine":  r.Machine,
					"accepted": r.Accepted,
					"steps":    r.Steps,
					"trace":    r.Trace,
				}
			}
			caseMap["runs"] = runs
		}
		cases[i] = caseMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"machine":       s.Machine,
		"cases":         cases,
	}
}

// MarshalSnapshot renders a result as canonical JSON.
func MarshalSnapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Machine:      result.Machine,
		Cases:        result.Cases,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the outcomes against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := MarshalSnapshot(scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return result, nil
}
