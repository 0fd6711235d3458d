package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Table is an immutable deterministic transition table.
//
// INVARIANTS:
//   - At most one entry per (state, symbol) key
//   - Entries never change after NewTable returns
//
// The zero Table has no entries; every lookup on it reports "no move".
type Table struct {
	entries map[Key]Transition
	rules   []Rule // declaration order, for rendering and hashing
}

// DuplicateKeyError is returned when two rules share a (state, symbol) key.
type DuplicateKeyError struct {
	Key   Key
	First Rule
	Again Rule
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("non-deterministic table: %s conflicts with %s", e.Again, e.First)
}

// NewTable builds a table from rules in declaration order.
// Returns *DuplicateKeyError if two rules share a key, or an error
// if a rule uses a symbol or move outside the alphabet.
func NewTable(rules []Rule) (Table, error) {
	t := Table{
		entries: make(map[Key]Transition, len(rules)),
		rules:   make([]Rule, 0, len(rules)),
	}
	first := make(map[Key]Rule, len(rules))

	for i, r := range rules {
		if r.From == "" || r.To == "" {
			return Table{}, fmt.Errorf("rule %d: state labels must be non-empty", i)
		}
		if !r.Read.Valid() {
			return Table{}, fmt.Errorf("rule %d: invalid read symbol %q", i, rune(r.Read))
		}
		if !r.Write.Valid() {
			return Table{}, fmt.Errorf("rule %d: invalid write symbol %q", i, rune(r.Write))
		}
		if r.Move != Left && r.Move != Right {
			return Table{}, fmt.Errorf("rule %d: invalid move %q", i, rune(r.Move))
		}

		k := r.Key()
		if prev, dup := first[k]; dup {
			return Table{}, &DuplicateKeyError{Key: k, First: prev, Again: r}
		}
		first[k] = r
		t.entries[k] = r.Transition()
		t.rules = append(t.rules, r)
	}

	return t, nil
}

// MustTable is like NewTable but panics on error.
// Intended for tests and package-level fixtures.
func MustTable(rules ...Rule) Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the transition for (state, sym).
// The boolean is false when no move is defined for the key; that is the
// machine's only non-accepting halt condition.
func (t Table) Lookup(state State, sym Symbol) (Transition, bool) {
	tr, ok := t.entries[Key{State: state, Symbol: sym}]
	return tr, ok
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.rules)
}

// Rules returns a copy of the rules in declaration order.
func (t Table) Rules() []Rule {
	return slices.Clone(t.rules)
}

// States returns every state label mentioned by the table, sorted.
func (t Table) States() []State {
	seen := make(map[State]bool)
	var states []State
	for _, r := range t.rules {
		for _, s := range []State{r.From, r.To} {
			if !seen[s] {
				seen[s] = true
				states = append(states, s)
			}
		}
	}
	slices.SortFunc(states, func(a, b State) int {
		return strings.Compare(string(a), string(b))
	})
	return states
}

// HasOutgoing reports whether any rule starts in state.
func (t Table) HasOutgoing(state State) bool {
	for _, r := range t.rules {
		if r.From == state {
			return true
		}
	}
	return false
}
