// Package render turns traces and definitions into text and Graphviz DOT.
//
// All output is deterministic: the same trace or definition renders to the
// same bytes, so renderings can be compared against golden files.
package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/turing/internal/ir"
)

// Node fill colors for trace diagrams.
const (
	colorVisited = "lightblue"
	colorHalting = "lightgreen"
)

// Path renders a trace as "q0 -> q1 -> q_accept".
func Path(trace []ir.State) string {
	parts := make([]string, len(trace))
	for i, s := range trace {
		parts[i] = string(s)
	}
	return strings.Join(parts, " -> ")
}

// TraceDOT renders the states visited by one run as a left-to-right digraph.
//
// One node per distinct state and one edge per distinct consecutive pair,
// both in first-visit order. The halting state (the last trace element) is
// filled light green, every other state light blue.
func TraceDOT(name string, trace []ir.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", quoteID(name))
	sb.WriteString("\trankdir=LR;\n")
	sb.WriteString("\tsize=\"10,5\";\n")
	sb.WriteString("\tnode [shape=circle, style=filled];\n")

	if len(trace) == 0 {
		sb.WriteString("}\n")
		return sb.String()
	}

	halting := trace[len(trace)-1]
	var nodes []ir.State
	for _, s := range trace {
		if !slices.Contains(nodes, s) {
			nodes = append(nodes, s)
		}
	}
	for _, s := range nodes {
		color := colorVisited
		if s == halting {
			color = colorHalting
		}
		fmt.Fprintf(&sb, "\t%s [fillcolor=%s];\n", quoteID(string(s)), color)
	}

	type edge struct{ from, to ir.State }
	var edges []edge
	for i := 1; i < len(trace); i++ {
		e := edge{trace[i-1], trace[i]}
		if !slices.Contains(edges, e) {
			edges = append(edges, e)
		}
	}
	for _, e := range edges {
		fmt.Fprintf(&sb, "\t%s -> %s;\n", quoteID(string(e.from)), quoteID(string(e.to)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// TableDOT renders the full state diagram of a definition.
//
// The accept state is a double circle and an unlabelled point marks the
// start state. Each rule is one edge labelled "read/write,move", emitted in
// (from, read) order.
func TableDOT(def ir.Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", quoteID(def.Name))
	sb.WriteString("\trankdir=LR;\n")
	sb.WriteString("\tnode [shape=circle];\n")
	fmt.Fprintf(&sb, "\t%s [shape=doublecircle];\n", quoteID(string(def.Accept)))
	sb.WriteString("\t__start [shape=point, label=\"\"];\n")
	fmt.Fprintf(&sb, "\t__start -> %s;\n", quoteID(string(def.Start)))

	rules := def.Table.Rules()
	slices.SortFunc(rules, func(a, b ir.Rule) int {
		if c := strings.Compare(string(a.From), string(b.From)); c != 0 {
			return c
		}
		return int(a.Read) - int(b.Read)
	})
	for _, r := range rules {
		fmt.Fprintf(&sb, "\t%s -> %s [label=\"%s/%s,%s\"];\n",
			quoteID(string(r.From)), quoteID(string(r.To)), r.Read, r.Write, r.Move)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// Tape renders the tape with a caret under the head.
//
//	110_
//	    ^
//
// A head outside the tape is shown past the nearest end with its position.
func Tape(tape string, head int) string {
	var sb strings.Builder
	sb.WriteString(tape)
	sb.WriteByte('\n')
	switch {
	case head < 0:
		fmt.Fprintf(&sb, "^ (head %d)", head)
	case head > len(tape):
		fmt.Fprintf(&sb, "%s^ (head %d)", strings.Repeat(" ", len(tape)), head)
	default:
		sb.WriteString(strings.Repeat(" ", head))
		sb.WriteByte('^')
	}
	return sb.String()
}

// quoteID quotes a DOT identifier.
func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
