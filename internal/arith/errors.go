package arith

import (
	"errors"
	"fmt"
)

// ErrNonFinite is returned when an expression evaluates to NaN or ±Inf,
// e.g. "5/0", "0/0" or "sqrt(-1)".
var ErrNonFinite = errors.New("result is not a finite number")

// SyntaxError reports malformed input: unbalanced parentheses, a dangling
// operator, an unknown function, or a character outside the grammar.
type SyntaxError struct {
	// Pos is the byte offset in the source where the problem was detected.
	Pos int

	// Msg describes the problem.
	Msg string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// IsSyntaxError reports whether err is (or wraps) a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

func syntaxErrorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
