package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/roach88/calc/internal/calculator"
)

// REPLOptions holds flags for the repl command.
type REPLOptions struct {
	*RootOptions
}

// NewREPLCommand creates the repl command.
func NewREPLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &REPLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive keypad session",
		Long: `Start an interactive session on the saved input line.

Each line is a sequence of keypad labels separated by spaces; a label
ending in "=" is evaluated after it is entered. Lines starting with ':' are
commands:

  :del              remove the last character
  :clear            clear the input line
  :history          list calculations
  :clear-history    remove all calculations
  :mode <mode>      switch to normal or scientific
  :toggle           switch between normal and scientific
  :keys             show the keypad for the current mode
  :help             list commands
  :quit             leave the session

Example session:
  calc> 2+3×4=
  14
  calc> ×2 =
  28`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(opts, cmd)
		},
	}

	return cmd
}

func runREPL(opts *REPLOptions, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions, true)
	if err != nil {
		return err
	}
	defer s.close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "calc> ",
		HistoryFile:       replHistoryFile(s.dbPath),
		AutoComplete:      newCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         ":quit",
		HistorySearchFold: true,
		Stdin:             io.NopCloser(cmd.InOrStdin()),
		Stdout:            cmd.OutOrStdout(),
		Stderr:            cmd.ErrOrStderr(),
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize interactive mode", err)
	}
	defer rl.Close()

	repl := NewREPL(s.engine, rl.Stdout(), s.feedback, s.log)
	repl.Render()

	ctx := commandContext(cmd)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return WrapExitError(ExitCommandError, "failed to read input", err)
		}

		quit, err := repl.HandleLine(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			break
		}
	}
	return nil
}

// replHistoryFile keeps line history next to the database.
func replHistoryFile(dbPath string) string {
	if dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		return ""
	}
	return filepath.Join(filepath.Dir(dbPath), "repl_history")
}

// replCommands lists the ':' commands for completion and :help.
var replCommands = []struct {
	Name string
	Help string
}{
	{"del", "remove the last character"},
	{"clear", "clear the input line"},
	{"history", "list calculations"},
	{"clear-history", "remove all calculations"},
	{"mode", "switch to normal or scientific"},
	{"toggle", "switch between normal and scientific"},
	{"keys", "show the keypad for the current mode"},
	{"help", "list commands"},
	{"quit", "leave the session"},
}

func newCompleter() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, c := range replCommands {
		if c.Name == "mode" {
			items = append(items, readline.PcItem(":mode",
				readline.PcItem(calculator.Normal.String()),
				readline.PcItem(calculator.Scientific.String()),
			))
			continue
		}
		items = append(items, readline.PcItem(":"+c.Name))
	}
	for _, k := range calculator.Keys(calculator.Scientific) {
		items = append(items, readline.PcItem(k))
	}
	return readline.NewPrefixCompleter(items...)
}

// REPL interprets interactive lines against an engine. It is independent of
// the terminal so that it can be driven from tests.
type REPL struct {
	engine   *calculator.Engine
	out      io.Writer
	feedback Feedback
	log      *slog.Logger
}

// NewREPL returns a REPL writing to out. A nil feedback is Silent.
func NewREPL(engine *calculator.Engine, out io.Writer, feedback Feedback, log *slog.Logger) *REPL {
	if feedback == nil {
		feedback = Silent{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &REPL{engine: engine, out: out, feedback: feedback, log: log}
}

// HandleLine processes one line of input. quit is true after :quit.
// Only storage errors are returned.
func (r *REPL) HandleLine(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		r.Render()
		return false, nil
	}
	if strings.HasPrefix(line, ":") {
		return r.command(ctx, line)
	}

	for _, field := range strings.Fields(line) {
		labels := []string{field}
		if field != calculator.KeyEquals && strings.HasSuffix(field, calculator.KeyEquals) {
			labels = []string{strings.TrimSuffix(field, calculator.KeyEquals), calculator.KeyEquals}
		}
		for _, label := range labels {
			if err := r.press(ctx, label); err != nil {
				return false, err
			}
		}
	}
	r.Render()
	return false, nil
}

func (r *REPL) press(ctx context.Context, label string) error {
	if err := r.engine.Press(ctx, label); err != nil {
		return storageError(err)
	}
	r.feedback.Cue()
	return nil
}

func (r *REPL) command(ctx context.Context, line string) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "q", "exit":
		return true, nil
	case "del":
		if err := r.press(ctx, calculator.KeyDelete); err != nil {
			return false, err
		}
		r.Render()
	case "clear":
		if err := r.press(ctx, calculator.KeyClear); err != nil {
			return false, err
		}
		r.Render()
	case "history":
		writeHistory(r.out, r.engine.History(), false)
	case "clear-history":
		if err := r.engine.ClearHistory(ctx); err != nil {
			return false, storageError(err)
		}
		r.feedback.Cue()
		fmt.Fprintln(r.out, "History cleared")
	case "mode":
		mode, err := calculator.ParseMode(arg)
		if err != nil || arg == "" {
			fmt.Fprintf(r.out, "usage: :mode normal|scientific\n")
			return false, nil
		}
		r.engine.SetMode(mode)
		fmt.Fprintf(r.out, "Mode: %s\n", modeTitle(mode))
	case "toggle":
		mode := r.engine.ToggleMode()
		r.feedback.Cue()
		fmt.Fprintf(r.out, "Mode: %s\n", modeTitle(mode))
	case "keys":
		writeKeypad(r.out, r.engine.Mode())
	case "help":
		for _, c := range replCommands {
			fmt.Fprintf(r.out, "  :%-15s %s\n", c.Name, c.Help)
		}
	default:
		r.log.Debug("unknown repl command", "line", line)
		fmt.Fprintf(r.out, "unknown command %q (try :help)\n", ":"+name)
	}
	return false, nil
}

// Render prints the current input line. An empty line shows as "0".
func (r *REPL) Render() {
	input := r.engine.Input()
	if input == "" {
		input = "0"
	}
	fmt.Fprintln(r.out, input)
}
