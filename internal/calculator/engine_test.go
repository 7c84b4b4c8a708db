package calculator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/calc/internal/testutil"
)

func newTestEngine(t *testing.T, seed map[string]string, opts ...Option) (*Engine, *testutil.MemoryStorage) {
	t.Helper()
	st := testutil.NewMemoryStorage(seed)
	base := []Option{
		WithIDSource(testutil.NewDeterministicClock()),
		WithSessionID("test-session"),
	}
	e, err := New(context.Background(), st, append(base, opts...)...)
	require.NoError(t, err)
	return e, st
}

// press feeds keypad labels to the engine, failing the test on any error.
func press(t *testing.T, e *Engine, labels ...string) {
	t.Helper()
	for _, l := range labels {
		require.NoError(t, e.Press(context.Background(), l), "press %q", l)
	}
}

func TestNew_EmptyStorage(t *testing.T) {
	e, st := newTestEngine(t, nil)

	s := e.Snapshot()
	assert.Equal(t, "", s.Input)
	assert.Empty(t, s.History)
	assert.Equal(t, Normal, s.Mode)
	assert.False(t, s.Err)
	assert.Equal(t, 0, st.Writes(), "loading must not write")
	assert.Equal(t, "test-session", e.SessionID())
}

func TestNew_GeneratesSessionID(t *testing.T) {
	e, err := New(context.Background(), testutil.NewMemoryStorage(nil))
	require.NoError(t, err)
	assert.Len(t, e.SessionID(), 36)
}

func TestNew_LoadsPersistedState(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{
		InputKey:   "12+",
		HistoryKey: `[{"id":100,"expression":"5×2","result":"10"},{"id":50,"expression":"1+1","result":"2"}]`,
	})

	assert.Equal(t, "12+", e.Input())
	require.Len(t, e.History(), 2)
	assert.Equal(t, HistoryEntry{ID: 100, Expression: "5×2", Result: "10"}, e.History()[0])

	// Ids continue after the largest persisted id.
	press(t, e, "3", KeyEquals)
	assert.Equal(t, int64(101), e.History()[0].ID)
}

func TestNew_UnreadableHistoryStartsEmpty(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{HistoryKey: "{not json"})
	assert.Empty(t, e.History())
}

func TestNew_PersistedErrorMarker(t *testing.T) {
	e, _ := newTestEngine(t, map[string]string{InputKey: ErrorMarker})
	assert.True(t, e.Snapshot().Err)

	press(t, e, "7")
	assert.Equal(t, "7", e.Input())
}

type failingGet struct{}

func (failingGet) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}
func (failingGet) Set(context.Context, string, string) error { return nil }
func (failingGet) Delete(context.Context, string) error      { return nil }

func TestNew_ReadErrorIsReturned(t *testing.T) {
	_, err := New(context.Background(), failingGet{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load input")
}

func TestAppend_Concatenates(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	tokens := []string{"sin(", "3", "0", ")", "×", "π", "EXP", "2"}

	for _, tok := range tokens {
		require.NoError(t, e.Append(context.Background(), tok))
	}

	assert.Equal(t, strings.Join(tokens, ""), e.Input())
}

func TestAppend_PersistsInput(t *testing.T) {
	e, st := newTestEngine(t, nil)

	require.NoError(t, e.Append(context.Background(), "4"))

	v, ok := st.Value(InputKey)
	require.True(t, ok)
	assert.Equal(t, "4", v)
	assert.Equal(t, 1, st.Writes())
}

func TestDeleteLast(t *testing.T) {
	ctx := context.Background()

	t.Run("removes last character", func(t *testing.T) {
		e, _ := newTestEngine(t, nil)
		press(t, e, "1", "2", "3")
		require.NoError(t, e.DeleteLast(ctx))
		assert.Equal(t, "12", e.Input())
	})

	t.Run("removes a whole multi-byte character", func(t *testing.T) {
		e, _ := newTestEngine(t, nil)
		press(t, e, "2", "π")
		require.NoError(t, e.DeleteLast(ctx))
		assert.Equal(t, "2", e.Input())
	})

	t.Run("removes one character of a function key", func(t *testing.T) {
		e, _ := newTestEngine(t, nil)
		press(t, e, "sin(")
		require.NoError(t, e.DeleteLast(ctx))
		assert.Equal(t, "sin", e.Input())
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		e, st := newTestEngine(t, nil)
		before := e.Snapshot()

		require.NoError(t, e.DeleteLast(ctx))

		assert.Equal(t, before, e.Snapshot())
		assert.Equal(t, 0, st.Writes())
	})
}

func TestClearInput(t *testing.T) {
	e, st := newTestEngine(t, nil)
	press(t, e, "9", "9", KeyEquals)
	require.Len(t, e.History(), 1)

	require.NoError(t, e.ClearInput(context.Background()))

	assert.Equal(t, "", e.Input())
	assert.Len(t, e.History(), 1, "history is not affected")
	v, _ := st.Value(InputKey)
	assert.Equal(t, "", v)
}

func TestEvaluate_Success(t *testing.T) {
	e, st := newTestEngine(t, nil)
	press(t, e, "2", "+", "2")
	writes := st.Writes()

	require.NoError(t, e.Evaluate(context.Background()))

	assert.Equal(t, "4", e.Input())
	assert.Equal(t, []HistoryEntry{{ID: 1, Expression: "2+2", Result: "4"}}, e.History())
	assert.False(t, e.Snapshot().Err)

	// Both keys are written.
	assert.Equal(t, writes+2, st.Writes())
	input, _ := st.Value(InputKey)
	assert.Equal(t, "4", input)
	history, _ := st.Value(HistoryKey)
	assert.JSONEq(t, `[{"id":1,"expression":"2+2","result":"4"}]`, history)
}

func TestEvaluate_Results(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{"multiply sign", []string{"6", "×", "7"}, "42"},
		{"divide sign", []string{"1", "÷", "3"}, "0.3333333333333333"},
		{"float noise kept", []string{"0", ".", "1", "+", "0", ".", "2"}, "0.30000000000000004"},
		{"percent is remainder", []string{"1", "7", "%", "5"}, "2"},
		{"square root", []string{"√(", "1", "6", ")"}, "4"},
		{"power", []string{"2", "^", "1", "0"}, "1024"},
		{"sine radians", []string{"sin(", "0", ")"}, "0"},
		{"log base ten", []string{"log(", "1", ")"}, "0"},
		{"natural log", []string{"ln(", "1", ")"}, "0"},
		{"implicit pi product", []string{"2", "π"}, "6.283185307179586"},
		{"euler", []string{"e"}, "2.718281828459045"},
		{"exp key", []string{"2", "EXP", "3"}, "2000"},
		{"negative", []string{"3", "-", "5"}, "-2"},
		{"negative zero", []string{"-", "0"}, "0"},
		{"large uses EXP", []string{"1", "0", "^", "2", "1"}, "1EXP21"},
		{"small uses EXP", []string{"1", "÷", "1", "0", "^", "7"}, "1EXP-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, nil)
			press(t, e, tt.labels...)
			press(t, e, KeyEquals)

			assert.Equal(t, tt.want, e.Input())
			require.Len(t, e.History(), 1)
			assert.Equal(t, strings.Join(tt.labels, ""), e.History()[0].Expression)
			assert.Equal(t, tt.want, e.History()[0].Result)
		})
	}
}

func TestEvaluate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
	}{
		{"division by zero", []string{"5", "÷", "0"}},
		{"zero over zero", []string{"0", "/", "0"}},
		{"square root of negative", []string{"√(", "-", "1", ")"}},
		{"dangling operator", []string{"2", "+"}},
		{"unbalanced parenthesis", []string{"sin(", "0"}},
		{"doubled decimal point", []string{"1", ".", "2", ".", "3"}},
		{"empty input", nil},
		{"exp without number", []string{"EXP", "3"}},
		{"unknown text", []string{"alert(1)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, st := newTestEngine(t, nil)
			press(t, e, tt.labels...)

			require.NoError(t, e.Evaluate(context.Background()))

			s := e.Snapshot()
			assert.Equal(t, ErrorMarker, s.Input)
			assert.True(t, s.Err)
			assert.Empty(t, s.History)

			input, _ := st.Value(InputKey)
			assert.Equal(t, ErrorMarker, input)
			history, _ := st.Value(HistoryKey)
			assert.Equal(t, "[]", history)
		})
	}
}

func TestEvaluate_FailureLeavesExistingHistory(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	press(t, e, "1", "+", "1", KeyEquals)
	before := e.History()

	press(t, e, "÷", "0", KeyEquals)

	assert.Equal(t, ErrorMarker, e.Input())
	assert.Equal(t, before, e.History())
}

func TestErrorMarker_ClearedByNextKeystroke(t *testing.T) {
	ctx := context.Background()
	fail := func(t *testing.T) *Engine {
		e, _ := newTestEngine(t, nil)
		press(t, e, "2", "+", KeyEquals)
		require.Equal(t, ErrorMarker, e.Input())
		return e
	}

	t.Run("append replaces marker", func(t *testing.T) {
		e := fail(t)
		require.NoError(t, e.Append(ctx, "7"))
		assert.Equal(t, "7", e.Input())
		assert.False(t, e.Snapshot().Err)
	})

	t.Run("delete clears marker", func(t *testing.T) {
		e := fail(t)
		require.NoError(t, e.DeleteLast(ctx))
		assert.Equal(t, "", e.Input())
	})

	t.Run("clear clears marker", func(t *testing.T) {
		e := fail(t)
		require.NoError(t, e.ClearInput(ctx))
		assert.Equal(t, "", e.Input())
	})

	t.Run("evaluate clears marker without recording", func(t *testing.T) {
		e := fail(t)
		require.NoError(t, e.Evaluate(ctx))
		assert.Equal(t, "", e.Input())
		assert.Empty(t, e.History())
	})
}

func TestEvaluate_Chaining(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	press(t, e, "2", "+", "2", KeyEquals)
	press(t, e, "×", "3", KeyEquals)

	assert.Equal(t, "12", e.Input())
	assert.Equal(t, []HistoryEntry{
		{ID: 2, Expression: "4×3", Result: "12"},
		{ID: 1, Expression: "2+2", Result: "4"},
	}, e.History())
}

func TestEvaluate_ChainingExponentResult(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	press(t, e, "1", "0", "^", "2", "1", KeyEquals)
	require.Equal(t, "1EXP21", e.Input())

	press(t, e, "×", "2", KeyEquals)
	assert.Equal(t, "2EXP21", e.Input())
}

func TestEvaluate_Precision(t *testing.T) {
	e, _ := newTestEngine(t, nil, WithPrecision(10))

	press(t, e, "0", ".", "1", "+", "0", ".", "2", KeyEquals)

	assert.Equal(t, "0.3", e.Input())
}

func TestClearHistory(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t, nil)
	for i := 0; i < 3; i++ {
		press(t, e, "1", "+", "1", KeyEquals, KeyClear)
	}
	press(t, e, "5")
	require.Len(t, e.History(), 3)

	require.NoError(t, e.ClearHistory(ctx))

	assert.Empty(t, e.History())
	assert.Equal(t, "5", e.Input(), "input is not affected")
	_, ok := st.Value(HistoryKey)
	assert.False(t, ok, "persisted history must be removed")

	// Clearing again stays empty.
	require.NoError(t, e.ClearHistory(ctx))
	assert.Empty(t, e.History())
}

func TestMode(t *testing.T) {
	e, st := newTestEngine(t, nil)
	press(t, e, "1", "+", "1", KeyEquals, "+")
	before := e.Snapshot()
	normalKeys := e.Keys()
	writes := st.Writes()

	e.SetMode(Scientific)
	assert.Equal(t, Scientific, e.Mode())
	assert.Contains(t, e.Keys(), "sin(")

	e.SetMode(Normal)
	assert.Equal(t, normalKeys, e.Keys())
	assert.Equal(t, before, e.Snapshot())
	assert.Equal(t, writes, st.Writes(), "mode is not persisted")
}

func TestToggleMode(t *testing.T) {
	e, _ := newTestEngine(t, nil, WithMode(Scientific))

	assert.Equal(t, Normal, e.ToggleMode())
	assert.Equal(t, Scientific, e.ToggleMode())
	assert.Equal(t, Scientific, e.Mode())
}

func TestMode_DoesNotChangeEvaluation(t *testing.T) {
	// Scientific tokens evaluate the same in Normal mode.
	e, _ := newTestEngine(t, nil)
	require.Equal(t, Normal, e.Mode())

	press(t, e, "√(", "9", ")", KeyEquals)
	assert.Equal(t, "3", e.Input())
}

func TestPress_Dispatch(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	press(t, e, "1", "2", KeyDelete)
	assert.Equal(t, "1", e.Input())

	press(t, e, KeyClear)
	assert.Equal(t, "", e.Input())

	press(t, e, "3", "×", "3", KeyEquals)
	assert.Equal(t, "9", e.Input())
}

func TestPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t, nil)
	boom := errors.New("quota exceeded")
	st.FailWith(boom)

	err := e.Append(ctx, "8")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "8", e.Input(), "memory state is updated regardless")

	err = e.Evaluate(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "8", e.Input())
	assert.Len(t, e.History(), 1)

	err = e.ClearHistory(ctx)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, e.History())
}

func TestSnapshot_IsIndependent(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	press(t, e, "1", KeyEquals)

	s := e.Snapshot()
	s.History[0].Result = "tampered"
	h := e.History()
	h[0].Expression = "tampered"

	assert.Equal(t, HistoryEntry{ID: 1, Expression: "1", Result: "1"}, e.History()[0])
}

func TestConcurrentAppends(t *testing.T) {
	e, st := newTestEngine(t, nil)
	const n = 50

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, e.Append(context.Background(), "1"))
		}()
	}
	wg.Wait()

	assert.Equal(t, strings.Repeat("1", n), e.Input())
	persisted, _ := st.Value(InputKey)
	assert.Equal(t, e.Input(), persisted)
}
