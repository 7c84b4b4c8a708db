package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/calc/internal/calculator"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Clear bool
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear calculation history",
		Long: `List saved calculations, newest first, or clear them.

Examples:
  calc history
  calc history --format json
  calc history --clear`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "remove all history entries")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	s, err := openSession(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer s.close()

	if opts.Clear {
		if err := s.engine.ClearHistory(commandContext(cmd)); err != nil {
			return storageError(err)
		}
		return s.out.Success(map[string]bool{"cleared": true}, "History cleared\n")
	}

	history := s.engine.History()
	if history == nil {
		history = []calculator.HistoryEntry{}
	}
	var text strings.Builder
	writeHistory(&text, history, opts.Verbose)
	return s.out.Success(history, text.String())
}

// writeHistory renders entries one per line as "expression = result".
func writeHistory(w io.Writer, history []calculator.HistoryEntry, withIDs bool) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No calculations yet...")
		return
	}
	for _, h := range history {
		if withIDs {
			fmt.Fprintf(w, "%d  ", h.ID)
		}
		fmt.Fprintf(w, "%s = %s\n", h.Expression, h.Result)
	}
}
