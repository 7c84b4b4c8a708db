package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/calc/internal/calculator"
)

// PressOptions holds flags for the press command.
type PressOptions struct {
	*RootOptions
}

// PressResult is the state after a sequence of presses.
type PressResult struct {
	Input string          `json:"input"`
	Error bool            `json:"error"`
	Mode  calculator.Mode `json:"mode"`
}

// NewPressCommand creates the press command.
func NewPressCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PressOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "press <label>...",
		Short: "Press keypad keys",
		Long: `Press keypad keys against the saved input line.

"C" clears the input, "DEL" removes the last character and "=" evaluates.
Any other label is appended as typed. The input line is saved after every
press, so a calculation can be built across several invocations.

Examples:
  calc press 1 2 + 3 =
  calc press √( 9 ) =
  calc press DEL`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPress(opts, args, cmd)
		},
	}

	return cmd
}

func runPress(opts *PressOptions, labels []string, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := commandContext(cmd)
	for _, label := range labels {
		if err := s.engine.Press(ctx, label); err != nil {
			return storageError(err)
		}
		s.feedback.Cue()
	}

	snap := s.engine.Snapshot()
	result := PressResult{Input: snap.Input, Error: snap.Err, Mode: snap.Mode}
	if err := s.out.Success(result, snap.Input+"\n"); err != nil {
		return err
	}
	if snap.Err {
		return NewExitError(ExitFailure, "evaluation failed")
	}
	return nil
}
