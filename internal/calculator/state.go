package calculator

import (
	"fmt"
	"strings"
)

// ErrorMarker is the literal input shown after a failed evaluation.
const ErrorMarker = "Error"

// Mode selects which keypad keys are offered. It does not change how
// expressions are evaluated.
type Mode int

const (
	Normal Mode = iota
	Scientific
)

// String returns "normal" or "scientific".
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Scientific:
		return "scientific"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "normal" or "scientific" (also "sci"), case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return Normal, nil
	case "scientific", "sci":
		return Scientific, nil
	}
	return Normal, fmt.Errorf("unknown mode %q: must be normal or scientific", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != Normal && m != Scientific {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// HistoryEntry records one successful evaluation. Entries are never
// modified after creation.
type HistoryEntry struct {
	// ID is unique and increases with creation time.
	ID int64 `json:"id"`

	// Expression is the input as typed, before normalization.
	Expression string `json:"expression"`

	// Result is the canonical string form of the computed value.
	Result string `json:"result"`
}

// State is a read-only view of the engine at one point in time. It shares no
// memory with the engine.
type State struct {
	Input   string         `json:"input"`
	History []HistoryEntry `json:"history"`
	Mode    Mode           `json:"mode"`

	// Err is true while Input holds ErrorMarker after a failed evaluation.
	Err bool `json:"error"`
}
