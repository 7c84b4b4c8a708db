package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: sample
description: "sample scenario"
mode: sci
precision: 2
seed:
  calcInput: "12"
steps:
  - press: ["+", "3", "="]
    expect:
      input: "15"
      error: false
      history: 1
  - toggle: true
  - set_mode: normal
  - clear_history: true
  - reload: true
assertions:
  - type: history_count
    count: 0
  - type: stored
    key: calcInput
    value: "15"
`))
	require.NoError(t, err)
	assert.Equal(t, "sample", s.Name)
	assert.Equal(t, map[string]string{"calcInput": "12"}, s.Seed)
	require.NotNil(t, s.Precision)
	assert.Equal(t, 2, *s.Precision)
	require.Len(t, s.Steps, 5)
	assert.Equal(t, []string{"+", "3", "="}, s.Steps[0].Press)
	require.NotNil(t, s.Steps[0].Expect)
	require.NotNil(t, s.Steps[0].Expect.Input)
	assert.Equal(t, "15", *s.Steps[0].Expect.Input)
	assert.True(t, s.Steps[1].Toggle)
	assert.Equal(t, "normal", s.Steps[2].SetMode)
	assert.True(t, s.Steps[3].ClearHistory)
	assert.True(t, s.Steps[4].Reload)
	require.Len(t, s.Assertions, 2)
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled field"
steps:
  - press: ["1"]
assertion:
  - type: history_count
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: d\nsteps:\n  - press: [\"1\"]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: n\nsteps:\n  - press: [\"1\"]\n",
			want: "description is required",
		},
		{
			name: "path in name",
			yaml: "name: a/b\ndescription: d\nsteps:\n  - press: [\"1\"]\n",
			want: "path separators",
		},
		{
			name: "no steps",
			yaml: "name: n\ndescription: d\n",
			want: "steps list is required",
		},
		{
			name: "bad mode",
			yaml: "name: n\ndescription: d\nmode: graphing\nsteps:\n  - press: [\"1\"]\n",
			want: "mode",
		},
		{
			name: "negative precision",
			yaml: "name: n\ndescription: d\nprecision: -1\nsteps:\n  - press: [\"1\"]\n",
			want: "precision must be non-negative",
		},
		{
			name: "empty step",
			yaml: "name: n\ndescription: d\nsteps:\n  - expect:\n      input: \"\"\n",
			want: "steps[0]: exactly one of",
		},
		{
			name: "two actions",
			yaml: "name: n\ndescription: d\nsteps:\n  - press: [\"1\"]\n    toggle: true\n",
			want: "(got 2)",
		},
		{
			name: "bad set_mode",
			yaml: "name: n\ndescription: d\nsteps:\n  - set_mode: loud\n",
			want: "steps[0]: set_mode",
		},
		{
			name: "bad expect mode",
			yaml: "name: n\ndescription: d\nsteps:\n  - toggle: true\n    expect:\n      mode: loud\n",
			want: "steps[0].expect: mode",
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\nsteps:\n  - press: [\"1\"]\nassertions:\n  - type: final_state\n",
			want: "unknown assertion type",
		},
		{
			name: "missing assertion type",
			yaml: "name: n\ndescription: d\nsteps:\n  - press: [\"1\"]\nassertions:\n  - count: 1\n",
			want: "type is required",
		},
		{
			name: "history_contains without fields",
			yaml: "name: n\ndescription: d\nsteps:\n  - press: [\"1\"]\nassertions:\n  - type: history_contains\n",
			want: "expression or result is required",
		},
		{
			name: "history_order without results",
			yaml: "name: n\ndescription: d\nsteps:\n  - press: [\"1\"]\nassertions:\n  - type: history_order\n",
			want: "results list is required",
		},
		{
			name: "stored without key",
			yaml: "name: n\ndescription: d\nsteps:\n  - press: [\"1\"]\nassertions:\n  - type: stored\n    absent: true\n",
			want: "key is required",
		},
		{
			name: "stored with value and absent",
			yaml: "name: n\ndescription: d\nsteps:\n  - press: [\"1\"]\nassertions:\n  - type: stored\n    key: calcInput\n    value: \"1\"\n    absent: true\n",
			want: "exactly one of value or absent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "c.txt", "golden/a.golden", "nested/d.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "d.yaml"),
	}, files)

	files, err = FindScenarios(dir, "[ab]")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = FindScenarios(dir, "[")
	assert.Error(t, err)
}
