// Package calculator implements the calculator's evaluation and history
// engine.
//
// The Engine owns the calculator state: the input being built, the
// newest-first history of evaluated expressions, and the keypad mode. It is
// the only writer of that state. Rendering layers drive it through keypad
// operations (Append, DeleteLast, ClearInput, Evaluate, ClearHistory,
// SetMode, or Press for raw key labels) and read it back via Snapshot.
//
// Persistence:
//
// The engine never reaches for ambient storage. A Storage implementation is
// injected into New; the engine reads InputKey and HistoryKey once at
// construction and writes after every mutation of the input or the history.
//
// Evaluation:
//
// Evaluate normalizes the input (package normalize) and evaluates it with the
// restricted evaluator in package arith. It is fail-soft: malformed input or
// a non-finite result leaves the history untouched and puts the literal
// ErrorMarker into the input. The next keystroke of any kind clears it.
//
// Concurrency:
//
// Every operation runs to completion under the engine's mutex, so several
// front ends may share one Engine and the persisted state always matches the
// latest in-memory state.
package calculator
