package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Definition is an immutable machine configuration: a transition table plus
// its designated start and accepting states.
//
// Definitions are plain values. They are safe to share between goroutines and
// between any number of engine instances.
type Definition struct {
	Name        string
	Description string
	Start       State
	Accept      State
	Table       Table
}

// NewDefinition builds a definition and its table.
// Returns an error if the rules are not deterministic, the start or accept
// state is empty, or the start state can never move.
func NewDefinition(name, description string, start, accept State, rules []Rule) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("definition name is required")
	}
	if start == "" {
		return Definition{}, fmt.Errorf("definition %s: start state is required", name)
	}
	if accept == "" {
		return Definition{}, fmt.Errorf("definition %s: accept state is required", name)
	}

	table, err := NewTable(rules)
	if err != nil {
		return Definition{}, fmt.Errorf("definition %s: %w", name, err)
	}

	if start != accept && !table.HasOutgoing(start) {
		return Definition{}, fmt.Errorf("definition %s: start state %s has no transitions", name, start)
	}

	return Definition{
		Name:        name,
		Description: description,
		Start:       start,
		Accept:      accept,
		Table:       table,
	}, nil
}

// Hash returns the content-addressed identity of the definition.
// The description is excluded: two definitions that behave identically hash
// identically. Rules are hashed in (from, read) order, so declaration order
// does not matter either.
func (d Definition) Hash() (string, error) {
	rules := d.Table.Rules()
	slices.SortFunc(rules, func(a, b Rule) int {
		if c := strings.Compare(string(a.From), string(b.From)); c != 0 {
			return c
		}
		return int(a.Read) - int(b.Read)
	})

	transitions := make([]any, len(rules))
	for i, r := range rules {
		transitions[i] = map[string]any{
			"from":  string(r.From),
			"read":  r.Read.String(),
			"to":    string(r.To),
			"write": r.Write.String(),
			"move":  r.Move.String(),
		}
	}

	obj := map[string]any{
		"name":        d.Name,
		"start":       string(d.Start),
		"accept":      string(d.Accept),
		"transitions": transitions,
		"version":     DefinitionVersion,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("definition hash: %w", err)
	}
	return hashWithDomain(DomainDefinition, canonical), nil
}

// MustHash is like Hash but panics on error.
// Definitions built by NewDefinition always hash successfully.
func (d Definition) MustHash() string {
	h, err := d.Hash()
	if err != nil {
		panic(err)
	}
	return h
}
