package calculator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/roach88/calc/internal/arith"
	"github.com/roach88/calc/internal/normalize"
)

// Engine owns the calculator state and its persistence.
//
// All methods are safe for concurrent use; each runs to completion under a
// single mutex. Methods that mutate state return only persistence errors.
// The in-memory state is updated even when the write fails.
type Engine struct {
	mu sync.Mutex

	storage   Storage
	ids       IDSource
	log       *slog.Logger
	session   string
	precision int

	input   string
	inError bool
	history []HistoryEntry // newest first
	mode    Mode
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDSource replaces the default wall-clock id source.
func WithIDSource(ids IDSource) Option {
	return func(e *Engine) {
		e.ids = ids
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithPrecision rounds results to places decimal places before formatting.
// A negative value (the default) keeps the shortest exact form.
func WithPrecision(places int) Option {
	return func(e *Engine) {
		e.precision = places
	}
}

// WithMode sets the initial keypad mode. Default: Normal.
func WithMode(mode Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithSessionID overrides the generated session id attached to log records.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.session = id
	}
}

// New creates an Engine and loads the input and history from storage.
//
// Missing keys start empty. A history value that cannot be decoded is logged
// and treated as empty; it is overwritten by the next history write.
// Read errors from storage are returned.
func New(ctx context.Context, storage Storage, opts ...Option) (*Engine, error) {
	e := &Engine{
		storage:   storage,
		log:       slog.Default(),
		precision: -1,
		mode:      Normal,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.session == "" {
		e.session = uuid.Must(uuid.NewV7()).String()
	}
	e.log = e.log.With("session", e.session)
	if e.ids == nil {
		e.ids = NewTimestampIDs()
	}

	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(ctx context.Context) error {
	input, ok, err := e.storage.Get(ctx, InputKey)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	if ok {
		e.input = input
		e.inError = input == ErrorMarker
	}

	raw, ok, err := e.storage.Get(ctx, HistoryKey)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if ok {
		history, err := DecodeHistory(raw)
		if err != nil {
			e.log.Warn("discarding unreadable history", "error", err)
		} else {
			e.history = history
		}
	}

	var last int64
	for _, h := range e.history {
		if h.ID > last {
			last = h.ID
		}
	}
	if s, ok := e.ids.(Seeder); ok {
		s.Seed(last)
	}

	e.log.Debug("state loaded", "input", e.input, "history", len(e.history))
	return nil
}

// Append adds token to the end of the input. No grammar check is made.
// After a failed evaluation the token replaces the error marker.
func (e *Engine) Append(ctx context.Context, token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inError {
		e.input, e.inError = "", false
	}
	e.input += token
	return e.saveInput(ctx)
}

// DeleteLast removes the last character of the input. It does nothing when
// the input is empty and clears the input after a failed evaluation.
func (e *Engine) DeleteLast(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.inError:
		e.input, e.inError = "", false
	case e.input == "":
		return nil
	default:
		_, size := utf8.DecodeLastRuneInString(e.input)
		e.input = e.input[:len(e.input)-size]
	}
	return e.saveInput(ctx)
}

// ClearInput empties the input.
func (e *Engine) ClearInput(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.input, e.inError = "", false
	return e.saveInput(ctx)
}

// Evaluate normalizes and evaluates the input.
//
// On success the result replaces the input and a new entry is prepended to
// the history. On failure the input becomes ErrorMarker and the history is
// unchanged; the evaluation error is logged, never returned. When the input
// already holds the error marker, Evaluate only clears it.
//
// Both the input and the history are persisted.
func (e *Engine) Evaluate(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inError {
		e.input, e.inError = "", false
		return e.saveInput(ctx)
	}

	expression := e.input
	canonical := normalize.Normalize(expression)
	v, err := arith.Eval(canonical)
	if err != nil {
		e.log.Debug("evaluation failed", "expression", expression, "canonical", canonical, "error", err)
		e.input, e.inError = ErrorMarker, true
		return e.saveAll(ctx)
	}

	entry := HistoryEntry{
		ID:         e.ids.Next(),
		Expression: expression,
		Result:     FormatResult(v, e.precision),
	}
	history := make([]HistoryEntry, 0, len(e.history)+1)
	history = append(history, entry)
	e.history = append(history, e.history...)
	e.input = entry.Result

	e.log.Debug("evaluated", "id", entry.ID, "expression", expression, "result", entry.Result)
	return e.saveAll(ctx)
}

// ClearHistory empties the history and removes it from storage. The input
// is not affected.
func (e *Engine) ClearHistory(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = nil
	if err := e.storage.Delete(ctx, HistoryKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// SetMode switches the keypad mode.
func (e *Engine) SetMode(mode Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
}

// ToggleMode flips between Normal and Scientific and returns the new mode.
func (e *Engine) ToggleMode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == Scientific {
		e.mode = Normal
	} else {
		e.mode = Scientific
	}
	return e.mode
}

// Mode returns the current keypad mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Keys returns the keypad labels offered in the current mode.
func (e *Engine) Keys() []string {
	return Keys(e.Mode())
}

// Press dispatches a keypad label: KeyClear clears the input, KeyDelete
// deletes the last character, KeyEquals evaluates, and any other label is
// appended.
func (e *Engine) Press(ctx context.Context, label string) error {
	switch label {
	case KeyClear:
		return e.ClearInput(ctx)
	case KeyDelete:
		return e.DeleteLast(ctx)
	case KeyEquals:
		return e.Evaluate(ctx)
	default:
		return e.Append(ctx, label)
	}
}

// Input returns the current input.
func (e *Engine) Input() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input
}

// History returns a copy of the history, newest first.
func (e *Engine) History() []HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]HistoryEntry{}, e.history...)
}

// Snapshot returns a read view of the whole state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Input:   e.input,
		History: append([]HistoryEntry{}, e.history...),
		Mode:    e.mode,
		Err:     e.inError,
	}
}

// SessionID returns the id attached to this engine's log records.
func (e *Engine) SessionID() string {
	return e.session
}

func (e *Engine) saveInput(ctx context.Context) error {
	if err := e.storage.Set(ctx, InputKey, e.input); err != nil {
		return fmt.Errorf("save input: %w", err)
	}
	return nil
}

func (e *Engine) saveAll(ctx context.Context) error {
	if err := e.saveInput(ctx); err != nil {
		return err
	}
	data, err := EncodeHistory(e.history)
	if err != nil {
		return err
	}
	if err := e.storage.Set(ctx, HistoryKey, data); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
