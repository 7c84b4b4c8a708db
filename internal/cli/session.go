package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/calc/internal/calculator"
	"github.com/roach88/calc/internal/config"
	"github.com/roach88/calc/internal/store"
)

// session bundles what a command needs to drive the engine.
type session struct {
	cfg      config.Config
	log      *slog.Logger
	store    *store.Store
	engine   *calculator.Engine
	feedback Feedback
	out      *OutputFormatter
	dbPath   string
}

// openSession loads config, configures logging, opens the database and
// builds an engine on it. With bestEffort set, storage failures are logged
// instead of returned.
func openSession(cmd *cobra.Command, opts *RootOptions, bestEffort bool) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	log := newLogger(cmd.ErrOrStderr(), opts.Verbose, cfg)

	dbPath := cfg.Storage.Path
	if opts.Database != "" {
		dbPath = opts.Database
	}
	if err := ensureParentDir(dbPath); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
	}

	log.Debug("opening database", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	var kv store.KV = st
	if bestEffort {
		kv = store.NewBestEffort(st, log)
	}

	// Validated by config.Load.
	mode, _ := cfg.CalculatorMode()
	eng, err := calculator.New(commandContext(cmd), kv,
		calculator.WithLogger(log),
		calculator.WithPrecision(cfg.Display.Precision),
		calculator.WithMode(mode),
	)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load calculator state", err)
	}
	log.Debug("session ready", "session", eng.SessionID(), "mode", mode)

	return &session{
		cfg:      cfg,
		log:      log,
		store:    st,
		engine:   eng,
		feedback: NewFeedback(cfg.Feedback.Bell, cmd.ErrOrStderr()),
		out:      newFormatter(cmd, opts),
		dbPath:   dbPath,
	}, nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.log.Error("error closing database", "error", err)
	}
}

// newLogger configures slog the way every command does: text on stderr,
// debug under --verbose, otherwise logging.level.
func newLogger(w io.Writer, verbose bool, cfg config.Config) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ensureParentDir creates the directory holding a database file.
func ensureParentDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// storageError wraps a persistence failure from the engine.
func storageError(err error) error {
	return WrapExitError(ExitCommandError, "failed to save calculator state", err)
}
