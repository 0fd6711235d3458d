package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/turing/internal/ir"
)

// marshalTrace converts a trace to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalTrace(trace []ir.State) (string, error) {
	if trace == nil {
		trace = []ir.State{}
	}
	data, err := ir.MarshalCanonical(trace)
	if err != nil {
		return "", fmt.Errorf("marshal trace: %w", err)
	}
	return string(data), nil
}

// unmarshalTrace parses a stored trace.
// Returns an empty slice (not nil) for an empty array.
func unmarshalTrace(data string) ([]ir.State, error) {
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal trace: %w", err)
	}
	trace := make([]ir.State, len(names))
	for i, n := range names {
		trace[i] = ir.State(n)
	}
	return trace, nil
}
