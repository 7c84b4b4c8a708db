// Package harness runs keystroke scenarios against the calculator engine.
//
// A scenario presses keypad keys, switches modes, clears history or
// reloads the engine from storage, checks the visible state after each
// step, and asserts on the final history and persisted values.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	mode: normal            # optional initial mode
//	precision: 2            # optional display rounding
//	seed:                   # optional initial storage
//	  calcInput: "12"
//	steps:
//	  - press: ["+", "3", "="]
//	    expect: { input: "15", history: 1 }
//	  - toggle: true
//	  - reload: true
//	    expect: { input: "15", mode: normal }
//	assertions:
//	  - type: history_contains
//	    expression: "12+3"
//	    result: "15"
//	  - type: stored
//	    key: calcInput
//	    value: "15"
//
// # Assertion Types
//
//   - history_contains: an entry with the given expression and/or result exists
//   - history_count: the history has exactly count entries
//   - history_order: the history results, newest first, equal results
//   - stored: the persisted value under key equals value, or is absent
//
// # Deterministic Testing
//
// Every scenario runs on fresh in-memory storage with a deterministic id
// clock (testutil.DeterministicClock), so history ids are 1, 2, 3, ... and
// traces are identical across runs. The trace and final state are compared
// against golden files with goldie.
package harness
