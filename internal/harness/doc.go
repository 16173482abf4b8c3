// Package harness provides conformance testing for shader modules.
//
// The harness compiles a module, runs one entry point through the
// interpreter with canned argument lines, and checks the outcome and the
// recorded trace against a YAML scenario.
//
// # Scenario Format
//
//	name: vec_add
//	description: "What this scenario validates"
//	module: ../modules/vec_add.cue
//	stage: vertex
//	inputs: ["1, 2, 3"]
//	legacy_sequencing: false
//	expect:
//	  result: "[2, 3, 4]"    # or error: SIZE_MISMATCH, or void: true
//	assertions:
//	  - type: trace_contains
//	    kind: Compose
//	    value: "[1, 1, 1]"
//	  - type: scope_value
//	    variable: a
//
// # Assertion Types
//
//   - trace_contains: an expression of the kind was evaluated, optionally to a value
//   - trace_order: kinds first appear in the given order
//   - trace_count: a statement or expression kind occurs exactly N times
//   - scope_value: a variable was visible to some statement, optionally with a value
//
// # Golden Traces
//
// Snapshot renders the outcome and trace as canonical JSON. Tests compare it
// with testdata/golden/<name>.golden through goldie; the CLI keeps golden
// files next to the scenarios.
package harness
