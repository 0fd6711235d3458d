package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/turing/internal/ir"
)

// Finding codes (W2xx warnings, I2xx informational).
const (
	FindingUnreachableState  = "W201" // state cannot be reached from start
	FindingAcceptHasRules    = "W202" // rules keyed on the accept state are never applied
	FindingAcceptUnreachable = "W203" // no path from start reaches accept
	FindingLoop              = "I204" // states form a loop; termination depends on the tape
	FindingBlankRunaway      = "W205" // loop reads only blanks moving one way; may leave the tape
)

// Finding levels.
const (
	LevelWarning = "warning"
	LevelInfo    = "info"
)

// Finding is a static observation about a compiled definition.
//
// Findings never make a definition invalid: a machine with unreachable states
// or loops still runs. They explain why a run might reject everything, hit
// the step ceiling or fail with a tape bounds error.
type Finding struct {
	Code    string     `json:"code"`
	Level   string     `json:"level"`
	Message string     `json:"message"`
	States  []ir.State `json:"states,omitempty"`
}

// Analyze performs static analysis on a definition's state graph.
//
// The algorithm:
//  1. Build the state graph (edge from -> to per rule)
//  2. Walk from the start state to find unreachable states
//  3. Use Tarjan's algorithm to find loops (SCCs with size > 1 or self-loops)
//  4. Flag loops whose rules all read blank and move the same way
//
// Findings are returned in a deterministic order.
func Analyze(def ir.Definition) []Finding {
	var findings []Finding
	rules := def.Table.Rules()
	graph := buildStateGraph(rules)

	var acceptRules []ir.State
	for _, r := range rules {
		if r.From == def.Accept {
			acceptRules = append(acceptRules, r.To)
		}
	}
	if len(acceptRules) > 0 {
		findings = append(findings, Finding{
			Code:    FindingAcceptHasRules,
			Level:   LevelWarning,
			Message: fmt.Sprintf("%d rule(s) keyed on accept state %s are never applied", len(acceptRules), def.Accept),
			States:  []ir.State{def.Accept},
		})
	}

	reachable := reachableFrom(def.Start, graph)
	var unreachable []ir.State
	for _, s := range graph.nodes() {
		if !reachable[s] {
			unreachable = append(unreachable, s)
		}
	}
	if len(unreachable) > 0 {
		findings = append(findings, Finding{
			Code:    FindingUnreachableState,
			Level:   LevelWarning,
			Message: fmt.Sprintf("unreachable from %s: %s", def.Start, joinStates(unreachable)),
			States:  unreachable,
		})
	}
	if !reachable[def.Accept] {
		findings = append(findings, Finding{
			Code:    FindingAcceptUnreachable,
			Level:   LevelWarning,
			Message: fmt.Sprintf("accept state %s is unreachable from %s; every input is rejected", def.Accept, def.Start),
			States:  []ir.State{def.Accept},
		})
	}

	for _, scc := range tarjanSCC(graph) {
		if len(scc) == 1 && !graph.hasEdge(scc[0], scc[0]) {
			continue
		}
		slices.Sort(scc)
		if runaway, move := blankRunaway(scc, rules); runaway {
			findings = append(findings, Finding{
				Code:    FindingBlankRunaway,
				Level:   LevelWarning,
				Message: fmt.Sprintf("loop %s reads only blanks moving %s; the head may leave the tape", joinStates(scc), move),
				States:  scc,
			})
			continue
		}
		findings = append(findings, Finding{
			Code:    FindingLoop,
			Level:   LevelInfo,
			Message: fmt.Sprintf("loop %s; termination depends on the tape contents", joinStates(scc)),
			States:  scc,
		})
	}

	return findings
}

// stateGraph maps state -> sorted distinct successor states.
type stateGraph map[ir.State][]ir.State

func buildStateGraph(rules []ir.Rule) stateGraph {
	graph := make(stateGraph)
	for _, r := range rules {
		if _, ok := graph[r.To]; !ok {
			graph[r.To] = nil
		}
		if !slices.Contains(graph[r.From], r.To) {
			graph[r.From] = append(graph[r.From], r.To)
		}
	}
	for s := range graph {
		slices.Sort(graph[s])
	}
	return graph
}

func (g stateGraph) nodes() []ir.State {
	nodes := make([]ir.State, 0, len(g))
	for s := range g {
		nodes = append(nodes, s)
	}
	slices.Sort(nodes)
	return nodes
}

func (g stateGraph) hasEdge(from, to ir.State) bool {
	return slices.Contains(g[from], to)
}

func reachableFrom(start ir.State, graph stateGraph) map[ir.State]bool {
	seen := map[ir.State]bool{start: true}
	queue := []ir.State{start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, next := range graph[s] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// blankRunaway reports whether every rule inside the loop reads a blank and
// all of them move the same way.
func blankRunaway(scc []ir.State, rules []ir.Rule) (bool, ir.Move) {
	members := make(map[ir.State]bool, len(scc))
	for _, s := range scc {
		members[s] = true
	}

	var move ir.Move
	internal := 0
	for _, r := range rules {
		if !members[r.From] || !members[r.To] {
			continue
		}
		internal++
		if r.Read != ir.Blank {
			return false, 0
		}
		if move == 0 {
			move = r.Move
		} else if move != r.Move {
			return false, 0
		}
	}
	return internal > 0, move
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Nodes are visited in sorted order so the result is deterministic.
// Single-node SCCs without self-loops are NOT loops.
func tarjanSCC(graph stateGraph) [][]ir.State {
	var (
		index   = 0
		stack   []ir.State
		indices = make(map[ir.State]int)
		lowlink = make(map[ir.State]int)
		onStack = make(map[ir.State]bool)
		sccs    [][]ir.State
	)

	var strongConnect func(ir.State)
	strongConnect = func(v ir.State) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// Root node: pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []ir.State
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range graph.nodes() {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func joinStates(states []ir.State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
