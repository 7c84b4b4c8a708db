package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nKeys pressed:")
		for _, event := range e.Trace {
			if event.Action == ActionPress {
				fmt.Fprintf(&buf, " %s", event.Label)
			} else {
				fmt.Fprintf(&buf, " [%s]", event.Action)
			}
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertHistoryContains:
		return assertHistoryContains(result, a)
	case AssertHistoryCount:
		return assertHistoryCount(result, a)
	case AssertHistoryOrder:
		return assertHistoryOrder(result, a)
	case AssertStored:
		return assertStored(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertHistoryContains checks that some entry matches the given
// expression and result (empty fields match anything).
func assertHistoryContains(result *Result, a Assertion) error {
	for _, h := range result.Final.History {
		if (a.Expression == "" || h.Expression == a.Expression) &&
			(a.Result == "" || h.Result == a.Result) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertHistoryContains,
		Expected: fmt.Sprintf("entry %s = %s", orAny(a.Expression), orAny(a.Result)),
		Actual:   describeHistory(result),
		Trace:    result.Trace,
	}
}

func assertHistoryCount(result *Result, a Assertion) error {
	if got := len(result.Final.History); got != a.Count {
		return &AssertionError{
			Type:     AssertHistoryCount,
			Expected: fmt.Sprintf("%d entries", a.Count),
			Actual:   fmt.Sprintf("%d entries", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertHistoryOrder(result *Result, a Assertion) error {
	got := make([]string, len(result.Final.History))
	for i, h := range result.Final.History {
		got[i] = h.Result
	}
	if !slices.Equal(got, a.Results) {
		return &AssertionError{
			Type:     AssertHistoryOrder,
			Expected: fmt.Sprintf("%q", a.Results),
			Actual:   fmt.Sprintf("%q", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertStored(result *Result, a Assertion) error {
	value, ok := result.Stored[a.Key]
	switch {
	case a.Absent && ok:
		return &AssertionError{
			Type:     AssertStored,
			Expected: fmt.Sprintf("%s absent", a.Key),
			Actual:   fmt.Sprintf("%s = %q", a.Key, value),
		}
	case a.Value != nil && !ok:
		return &AssertionError{
			Type:     AssertStored,
			Expected: fmt.Sprintf("%s = %q", a.Key, *a.Value),
			Actual:   fmt.Sprintf("%s absent", a.Key),
		}
	case a.Value != nil && value != *a.Value:
		return &AssertionError{
			Type:     AssertStored,
			Expected: fmt.Sprintf("%s = %q", a.Key, *a.Value),
			Actual:   fmt.Sprintf("%s = %q", a.Key, value),
		}
	}
	return nil
}

func describeHistory(result *Result) string {
	if len(result.Final.History) == 0 {
		return "empty history"
	}
	parts := make([]string, len(result.Final.History))
	for i, h := range result.Final.History {
		parts[i] = h.Expression + " = " + h.Result
	}
	return strings.Join(parts, "; ")
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
