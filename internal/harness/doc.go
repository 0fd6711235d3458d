// Package harness provides a conformance testing framework for Turing
// machine definitions.
//
// A scenario is a YAML file naming a machine (built-in, "composite", or one
// compiled from a CUE file) and a list of inputs with their expected
// verdicts:
//
//	name: div3_basics
//	description: Binary multiples of three
//	machine: div3
//	cases:
//	  - input: "110"
//	    expect: accept
//	    trace: [q0, q1, q0, q0, q_accept]
//	  - input: "10"
//	    expect: reject
//	assertions:
//	  - type: oracle
//	    oracle: div3
//	    max_len: 6
//
// Run evaluates every case against the real engine and collects
// mismatches. RunWithGolden additionally snapshots every observed trace as
// canonical JSON and compares it with testdata/golden/<name>.golden, so a
// change to a transition table that alters any path shows up as a diff even
// when the verdicts stay the same.
package harness
