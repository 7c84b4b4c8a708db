package cli

import "io"

// Feedback is the cue played for every accepted keypad press.
type Feedback interface {
	Cue()
}

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer
}

// Cue writes BEL to W.
func (b Bell) Cue() {
	_, _ = io.WriteString(b.W, "\a")
}

// Silent does nothing.
type Silent struct{}

func (Silent) Cue() {}

// NewFeedback returns a Bell writing to w when enabled, otherwise Silent.
func NewFeedback(enabled bool, w io.Writer) Feedback {
	if enabled && w != nil {
		return Bell{W: w}
	}
	return Silent{}
}
