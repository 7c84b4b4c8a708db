package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/calc/internal/calculator"
	"github.com/roach88/calc/internal/testutil"
)

// Harness executes one scenario against a fresh engine.
// History ids come from a deterministic clock, so identical scenarios
// produce identical traces.
type Harness struct {
	scenario *Scenario
	storage  *testutil.MemoryStorage
	clock    *testutil.DeterministicClock
	logger   *slog.Logger
	engine   *calculator.Engine
	result   *Result
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on fresh in-memory storage seeded from scenario.Seed.
// Execution errors (storage failures) are returned; expectation and
// assertion failures are recorded in the result.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{
		scenario: scenario,
		storage:  testutil.NewMemoryStorage(scenario.Seed),
		clock:    testutil.NewDeterministicClock(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in scenarios
		result:   NewResult(),
	}

	ctx := context.Background()
	if err := h.newEngine(ctx); err != nil {
		return nil, err
	}

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Expect != nil {
			for _, msg := range checkExpect(i, *step.Expect, h.engine.Snapshot()) {
				h.result.AddError(msg)
			}
		}
	}

	snap := h.engine.Snapshot()
	h.result.Final = FinalState{
		Input:   snap.Input,
		Mode:    snap.Mode.String(),
		History: snap.History,
	}
	for _, key := range h.storage.Keys() {
		v, _ := h.storage.Value(key)
		h.result.Stored[key] = v
	}

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}

	return h.result, nil
}

// newEngine (re)creates the engine on the harness storage. Mode is not
// persisted, so a reload starts in the scenario's initial mode.
func (h *Harness) newEngine(ctx context.Context) error {
	mode, err := calculator.ParseMode(h.scenario.Mode)
	if err != nil {
		return err
	}
	precision := -1
	if h.scenario.Precision != nil {
		precision = *h.scenario.Precision
	}

	eng, err := calculator.New(ctx, h.storage,
		calculator.WithIDSource(h.clock),
		calculator.WithLogger(h.logger),
		calculator.WithSessionID("scenario:"+h.scenario.Name),
		calculator.WithPrecision(precision),
		calculator.WithMode(mode),
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	h.engine = eng
	return nil
}

// executeStep performs the step's single action and records trace events.
func (h *Harness) executeStep(ctx context.Context, step Step) error {
	switch {
	case len(step.Press) > 0:
		for _, label := range step.Press {
			if err := h.engine.Press(ctx, label); err != nil {
				return fmt.Errorf("press %q: %w", label, err)
			}
			h.result.addEvent(ActionPress, label, h.engine.Snapshot())
		}

	case step.Toggle:
		h.engine.ToggleMode()
		h.result.addEvent(ActionToggle, "", h.engine.Snapshot())

	case step.SetMode != "":
		mode, err := calculator.ParseMode(step.SetMode)
		if err != nil {
			return err
		}
		h.engine.SetMode(mode)
		h.result.addEvent(ActionSetMode, mode.String(), h.engine.Snapshot())

	case step.ClearHistory:
		if err := h.engine.ClearHistory(ctx); err != nil {
			return err
		}
		h.result.addEvent(ActionClearHistory, "", h.engine.Snapshot())

	case step.Reload:
		if err := h.newEngine(ctx); err != nil {
			return err
		}
		h.result.addEvent(ActionReload, "", h.engine.Snapshot())

	default:
		return fmt.Errorf("step has no action")
	}
	return nil
}

// checkExpect compares the visible state against an expectation.
func checkExpect(index int, want Expect, snap calculator.State) []string {
	var errs []string
	if want.Input != nil && snap.Input != *want.Input {
		errs = append(errs, fmt.Sprintf("steps[%d]: input = %q, expected %q", index, snap.Input, *want.Input))
	}
	if want.Error != nil && snap.Err != *want.Error {
		errs = append(errs, fmt.Sprintf("steps[%d]: error = %v, expected %v", index, snap.Err, *want.Error))
	}
	if want.History != nil && len(snap.History) != *want.History {
		errs = append(errs, fmt.Sprintf("steps[%d]: history has %d entries, expected %d", index, len(snap.History), *want.History))
	}
	if want.Mode != "" {
		mode, _ := calculator.ParseMode(want.Mode)
		if snap.Mode != mode {
			errs = append(errs, fmt.Sprintf("steps[%d]: mode = %s, expected %s", index, snap.Mode, mode))
		}
	}
	return errs
}
