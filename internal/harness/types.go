package harness

import "github.com/roach88/calc/internal/calculator"

// Trace event actions.
const (
	ActionPress        = "press"
	ActionToggle       = "toggle"
	ActionSetMode      = "set_mode"
	ActionClearHistory = "clear_history"
	ActionReload       = "reload"
)

// TraceEvent records one action and the visible state right after it.
// A press step produces one event per label.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Action  string `json:"action"`
	Label   string `json:"label,omitempty"`
	Input   string `json:"input"`
	Error   bool   `json:"error,omitempty"`
	History int    `json:"history"`
	Mode    string `json:"mode"`
}

// FinalState is the engine state after the last step.
type FinalState struct {
	Input   string                    `json:"input"`
	Mode    string                    `json:"mode"`
	History []calculator.HistoryEntry `json:"history"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per action, in order.
	Trace []TraceEvent `json:"trace"`

	// Final is the state after the last step.
	Final FinalState `json:"final"`

	// Stored holds the persisted key-value pairs after the last step.
	Stored map[string]string `json:"stored,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Stored: make(map[string]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends an event describing snap after action.
func (r *Result) addEvent(action, label string, snap calculator.State) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     int64(len(r.Trace) + 1),
		Action:  action,
		Label:   label,
		Input:   snap.Input,
		Error:   snap.Err,
		History: len(snap.History),
		Mode:    snap.Mode.String(),
	})
}
