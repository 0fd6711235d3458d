package store

import (
	"fmt"
	"strings"
)

// Predicate is a filter condition over the decisions table.
//
// This is a sealed interface: only types in this package implement it, so
// compilePredicate can switch over every case.
//
// Predicate types:
//   - Equals: column = value
//   - RunVerdict: the decision has a run of machine with the given verdict
//   - And: all predicates must be true
type Predicate interface {
	predicateNode()
}

// Equals matches decisions whose column holds value.
// Column must be one of the filterable decision columns.
type Equals struct {
	Column string
	Value  any
}

func (Equals) predicateNode() {}

// RunVerdict matches decisions where the named machine accepted (or
// rejected) the input.
type RunVerdict struct {
	Machine  string
	Accepted bool
}

func (RunVerdict) predicateNode() {}

// And matches when every predicate matches. An empty And matches everything.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Query selects decisions from the log.
type Query struct {
	Filter Predicate // nil = every decision
	Limit  int       // <= 0 = no limit
}

// filterableColumns are the decision columns a Predicate may reference.
var filterableColumns = map[string]bool{
	"id":             true,
	"input":          true,
	"accepted":       true,
	"engine_version": true,
}

const selectDecisions = `SELECT seq, id, input, accepted, elapsed_ns, engine_version FROM decisions`

// compileQuery converts q to parameterized SQL.
//
// Every query is ordered by seq so results are deterministic. Values are
// always bound as parameters, never interpolated.
func compileQuery(q Query) (string, []any, error) {
	var (
		sb     strings.Builder
		params []any
	)
	sb.WriteString(selectDecisions)

	if q.Filter != nil {
		where, whereParams, err := compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
		params = whereParams
	}

	sb.WriteString(" ORDER BY seq ASC")
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}
	return sb.String(), params, nil
}

func compilePredicate(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case Equals:
		return compileEquals(pred)
	case *Equals:
		return compileEquals(*pred)
	case RunVerdict:
		return compileRunVerdict(pred)
	case *RunVerdict:
		return compileRunVerdict(*pred)
	case And:
		return compileAnd(pred)
	case *And:
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileEquals(eq Equals) (string, []any, error) {
	if !filterableColumns[eq.Column] {
		return "", nil, fmt.Errorf("column %q is not filterable", eq.Column)
	}
	switch v := eq.Value.(type) {
	case string, int, int64:
		return eq.Column + " = ?", []any{v}, nil
	case bool:
		return eq.Column + " = ?", []any{boolToInt(v)}, nil
	default:
		return "", nil, fmt.Errorf("unsupported value type %T for column %s", eq.Value, eq.Column)
	}
}

func compileRunVerdict(rv RunVerdict) (string, []any, error) {
	if rv.Machine == "" {
		return "", nil, fmt.Errorf("run verdict requires a machine name")
	}
	sql := "EXISTS (SELECT 1 FROM runs WHERE runs.decision_id = decisions.id AND runs.machine = ? AND runs.accepted = ?)"
	return sql, []any{rv.Machine, boolToInt(rv.Accepted)}, nil
}

func compileAnd(and And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
