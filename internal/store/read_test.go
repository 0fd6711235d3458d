package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/turing/internal/ir"
)

func TestReadDecision_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	rec := createTestRecord(t, "dec", "101")

	require.NoError(t, s.WriteDecision(ctx, rec))

	got, err := s.ReadDecision(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.Seq)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "101", got.Input)
	assert.False(t, got.Accepted, "101 is 5")
	assert.Equal(t, rec.Elapsed, got.Elapsed)
	assert.Equal(t, ir.EngineVersion, got.EngineVersion)

	require.Len(t, got.Runs, 2)
	// Runs come back ordered by machine name.
	assert.Equal(t, "div3", got.Runs[0].Machine)
	assert.Equal(t, "palindrome", got.Runs[1].Machine)

	pal := got.Runs[1]
	assert.True(t, pal.Accepted)
	assert.Equal(t, ir.State("q_accept"), pal.FinalState)
	assert.Equal(t, 11, pal.Steps)
	assert.Equal(t, []ir.State{"q0", "q4", "q4", "q4", "q5", "q6", "q6", "q0", "q1", "q2", "q0", "q_accept"}, pal.Trace)
	assert.Equal(t, "____", pal.FinalTape)
	assert.Equal(t, rec.ID, pal.DecisionID)

	hash, err := ir.TraceHash(pal.Trace)
	require.NoError(t, err)
	assert.Equal(t, hash, pal.TraceHash)
}

func TestReadDecision_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadDecision(context.Background(), "missing")
	if err != sql.ErrNoRows {
		t.Errorf("ReadDecision() error = %v, want sql.ErrNoRows", err)
	}
}

func TestListDecisions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inputs := []string{"11", "0110", "11", "1"}
	for i, input := range inputs {
		require.NoError(t, s.WriteDecision(ctx, createTestRecord(t, fmt.Sprintf("dec%d", i), input)))
	}

	all, err := s.ListDecisions(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, rec := range all {
		assert.Equal(t, int64(i+1), rec.Seq, "ordered by seq")
		assert.Equal(t, inputs[i], rec.Input)
		assert.Len(t, rec.Runs, 2)
	}

	elevens, err := s.ListDecisions(ctx, "11", 0)
	require.NoError(t, err)
	require.Len(t, elevens, 2)
	assert.Equal(t, "dec0-0001", elevens[0].ID)
	assert.Equal(t, "dec2-0001", elevens[1].ID)

	limited, err := s.ListDecisions(ctx, "", 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	none, err := s.ListDecisions(ctx, "000", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestReadRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ReadRuns(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestUnmarshalTrace(t *testing.T) {
	trace, err := unmarshalTrace(`["q0","q_accept"]`)
	require.NoError(t, err)
	assert.Equal(t, []ir.State{"q0", "q_accept"}, trace)

	trace, err = unmarshalTrace(`[]`)
	require.NoError(t, err)
	assert.Equal(t, []ir.State{}, trace)

	_, err = unmarshalTrace(`{`)
	assert.Error(t, err)

	data, err := marshalTrace(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", data)
}
