package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileQuery_NoFilter(t *testing.T) {
	sql, params, err := compileQuery(Query{})
	require.NoError(t, err)

	assert.Equal(t, selectDecisions+" ORDER BY seq ASC", sql)
	assert.Empty(t, params)
}

func TestCompileQuery_Equals(t *testing.T) {
	sql, params, err := compileQuery(Query{
		Filter: Equals{Column: "input", Value: "0110"},
		Limit:  5,
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE input = ?")
	assert.Contains(t, sql, "ORDER BY seq ASC LIMIT ?")
	assert.NotContains(t, sql, "0110", "values are bound, never interpolated")
	assert.Equal(t, []any{"0110", 5}, params)
}

func TestCompileQuery_PointerPredicates(t *testing.T) {
	sql, params, err := compileQuery(Query{
		Filter: &And{Predicates: []Predicate{
			&Equals{Column: "accepted", Value: false},
			&RunVerdict{Machine: "div3", Accepted: false},
		}},
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE (accepted = ?) AND (EXISTS (SELECT 1 FROM runs")
	assert.Equal(t, []any{0, "div3", 0}, params)
}

func TestCompileQuery_EmptyAnd(t *testing.T) {
	sql, params, err := compileQuery(Query{Filter: And{}})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE 1 = 1")
	assert.Empty(t, params)
}

func TestCompileQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter Predicate
		want   string
	}{
		{"unknown column", Equals{Column: "trace", Value: "x"}, `column "trace" is not filterable`},
		{"injection attempt", Equals{Column: "input; DROP TABLE runs", Value: "x"}, "is not filterable"},
		{"unsupported value", Equals{Column: "input", Value: 1.5}, "unsupported value type float64"},
		{"nested error", And{Predicates: []Predicate{Equals{Column: "nope", Value: 1}}}, "is not filterable"},
		{"missing machine", RunVerdict{Accepted: true}, "requires a machine name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := compileQuery(Query{Filter: tt.filter})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindDecisions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// 11 and 0110 are accepted by both machines; 1 fails divisibility.
	inputs := []string{"11", "0110", "11", "1"}
	for i, input := range inputs {
		require.NoError(t, s.WriteDecision(ctx, createTestRecord(t, fmt.Sprintf("dec%d", i), input)))
	}

	ids := func(recs []DecisionRecord) []string {
		out := make([]string, len(recs))
		for i, r := range recs {
			out[i] = r.ID
		}
		return out
	}

	accepted, err := s.FindDecisions(ctx, Query{Filter: Equals{Column: "accepted", Value: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dec0-0001", "dec1-0001", "dec2-0001"}, ids(accepted))

	div3Rejected, err := s.FindDecisions(ctx, Query{Filter: RunVerdict{Machine: "div3", Accepted: false}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dec3-0001"}, ids(div3Rejected))
	require.Len(t, div3Rejected[0].Runs, 2)

	palindromeRejected, err := s.FindDecisions(ctx, Query{Filter: RunVerdict{Machine: "palindrome", Accepted: false}})
	require.NoError(t, err)
	assert.Empty(t, palindromeRejected)

	combined, err := s.FindDecisions(ctx, Query{
		Filter: And{Predicates: []Predicate{
			Equals{Column: "input", Value: "11"},
			Equals{Column: "accepted", Value: true},
		}},
		Limit: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dec0-0001"}, ids(combined))

	_, err = s.FindDecisions(ctx, Query{Filter: Equals{Column: "bogus", Value: 1}})
	require.Error(t, err)
}
