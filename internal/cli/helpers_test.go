package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

// testEnv isolates a CLI run: its own HOME, config path and database.
type testEnv struct {
	home   string
	config string
	db     string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return testEnv{
		home:   home,
		config: filepath.Join(home, "config.yaml"),
		db:     filepath.Join(home, "data", "calc.db"),
	}
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the root command against env with args.
func (e testEnv) run(t *testing.T, args ...string) cmdResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", e.config, "--db", e.db}, args...))
	err := root.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
