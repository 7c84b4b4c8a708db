package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
}

// EvalResult is one evaluated expression.
type EvalResult struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	OK         bool   `json:"ok"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate expressions",
		Long: `Evaluate one or more expressions written with keypad labels.

Each expression replaces the input line and is evaluated as if "=" had been
pressed. Successful evaluations are added to the history. Exits with status 1
if any expression fails to evaluate.

Examples:
  calc eval '2+3×4'
  calc eval '√(16)' 'sin(π÷2)' '2^10'
  calc eval --format json '1÷0'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args, cmd)
		},
	}

	return cmd
}

func runEval(opts *EvalOptions, exprs []string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := commandContext(cmd)
	results := make([]EvalResult, 0, len(exprs))
	failed := 0

	for _, expr := range exprs {
		if err := s.engine.ClearInput(ctx); err != nil {
			return storageError(err)
		}
		if err := s.engine.Append(ctx, expr); err != nil {
			return storageError(err)
		}
		if err := s.engine.Evaluate(ctx); err != nil {
			return storageError(err)
		}

		snap := s.engine.Snapshot()
		if snap.Err {
			failed++
		}
		s.out.VerboseLog("%s -> %s", expr, snap.Input)
		results = append(results, EvalResult{
			Expression: expr,
			Result:     snap.Input,
			OK:         !snap.Err,
		})
	}

	var text strings.Builder
	for _, r := range results {
		fmt.Fprintln(&text, r.Result)
	}
	if err := s.out.Success(results, text.String()); err != nil {
		return err
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d expressions failed to evaluate", failed, len(exprs)))
	}
	return nil
}
