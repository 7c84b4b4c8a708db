package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/calc/internal/calculator"
)

// Scenario defines a keystroke scenario.
// Scenarios drive a calculator engine through keypad presses and assert on
// the resulting trace, history and persisted values.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed pre-populates storage before the engine is created, e.g. a
	// calcHistory value written by an earlier version.
	Seed map[string]string `yaml:"seed,omitempty"`

	// Mode is the initial keypad mode ("normal" when empty).
	Mode string `yaml:"mode,omitempty"`

	// Precision rounds results to N decimal places. Nil keeps the shortest
	// exact form.
	Precision *int `yaml:"precision,omitempty"`

	// Steps are executed in order. Each step performs exactly one action.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	// Supported types: history_contains, history_count, history_order, stored
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user action with an optional expectation checked after it.
type Step struct {
	// Press lists keypad labels pressed in order.
	Press []string `yaml:"press,omitempty"`

	// Toggle switches between normal and scientific mode.
	Toggle bool `yaml:"toggle,omitempty"`

	// SetMode switches to the named mode.
	SetMode string `yaml:"set_mode,omitempty"`

	// ClearHistory removes all history entries.
	ClearHistory bool `yaml:"clear_history,omitempty"`

	// Reload discards the engine and builds a new one on the same storage,
	// as a page reload would.
	Reload bool `yaml:"reload,omitempty"`

	// Expect is checked after the action. Nil skips the check.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the visible state after a step. Unset fields are not
// checked.
type Expect struct {
	Input   *string `yaml:"input,omitempty"`
	Error   *bool   `yaml:"error,omitempty"`
	History *int    `yaml:"history,omitempty"`
	Mode    string  `yaml:"mode,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "history_contains": an entry with Expression and/or Result exists
	// - "history_count": the history has exactly Count entries
	// - "history_order": the history results, newest first, equal Results
	// - "stored": storage holds Value under Key, or nothing when Absent
	Type string `yaml:"type"`

	// Expression and Result match history entries (history_contains).
	Expression string `yaml:"expression,omitempty"`
	Result     string `yaml:"result,omitempty"`

	// Count is the expected number of entries (history_count).
	Count int `yaml:"count,omitempty"`

	// Results is the expected result order (history_order).
	Results []string `yaml:"results,omitempty"`

	// Key, Value and Absent describe a persisted value (stored).
	Key    string  `yaml:"key,omitempty"`
	Value  *string `yaml:"value,omitempty"`
	Absent bool    `yaml:"absent,omitempty"`
}

// Assertion type constants.
const (
	AssertHistoryContains = "history_contains"
	AssertHistoryCount    = "history_count"
	AssertHistoryOrder    = "history_order"
	AssertStored          = "stored"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
// A non-empty filter is a glob matched against the file name without
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("name must not contain path separators: %q", s.Name)
	}

	if _, err := calculator.ParseMode(s.Mode); err != nil {
		return fmt.Errorf("mode: %w", err)
	}

	if s.Precision != nil && *s.Precision < 0 {
		return fmt.Errorf("precision must be non-negative, got %d", *s.Precision)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that a step names exactly one action.
func validateStep(index int, s *Step) error {
	actions := 0
	if len(s.Press) > 0 {
		actions++
	}
	if s.Toggle {
		actions++
	}
	if s.SetMode != "" {
		actions++
		if _, err := calculator.ParseMode(s.SetMode); err != nil {
			return fmt.Errorf("steps[%d]: set_mode: %w", index, err)
		}
	}
	if s.ClearHistory {
		actions++
	}
	if s.Reload {
		actions++
	}

	if actions != 1 {
		return fmt.Errorf("steps[%d]: exactly one of press, toggle, set_mode, clear_history, reload is required (got %d)", index, actions)
	}

	if s.Expect != nil && s.Expect.Mode != "" {
		if _, err := calculator.ParseMode(s.Expect.Mode); err != nil {
			return fmt.Errorf("steps[%d].expect: mode: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHistoryContains:
		if a.Expression == "" && a.Result == "" {
			return fmt.Errorf("assertions[%d]: expression or result is required for history_contains", index)
		}
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for history_count", index)
		}
	case AssertHistoryOrder:
		if a.Results == nil {
			return fmt.Errorf("assertions[%d]: results list is required for history_order", index)
		}
	case AssertStored:
		if a.Key == "" {
			return fmt.Errorf("assertions[%d]: key is required for stored", index)
		}
		if (a.Value == nil) == !a.Absent {
			return fmt.Errorf("assertions[%d]: exactly one of value or absent is required for stored", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
