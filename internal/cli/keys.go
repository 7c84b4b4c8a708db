package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/calc/internal/calculator"
	"github.com/roach88/calc/internal/config"
)

// KeysOptions holds flags for the keys command.
type KeysOptions struct {
	*RootOptions
	Scientific bool
}

// KeysResult is the keypad offered in one mode.
type KeysResult struct {
	Mode calculator.Mode `json:"mode"`
	Rows [][]string      `json:"rows"`
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeysOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show the keypad",
		Long: `Show the keypad labels offered in the configured mode.

Scientific mode adds function, constant and exponent keys above the
normal keypad.

Examples:
  calc keys
  calc keys --scientific`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Scientific, "scientific", false, "show the scientific keypad")

	return cmd
}

func runKeys(opts *KeysOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	mode, _ := cfg.CalculatorMode()
	if opts.Scientific {
		mode = calculator.Scientific
	}

	result := KeysResult{Mode: mode, Rows: calculator.Rows(mode)}
	var text strings.Builder
	writeKeypad(&text, mode)
	return newFormatter(cmd, opts.RootOptions).Success(result, text.String())
}

// writeKeypad prints the mode line and one keypad row per line.
func writeKeypad(w io.Writer, mode calculator.Mode) {
	fmt.Fprintf(w, "Mode: %s\n", modeTitle(mode))
	for _, row := range calculator.Rows(mode) {
		fmt.Fprintln(w, strings.Join(row, "  "))
	}
}

// modeTitle returns "Normal" or "Scientific".
func modeTitle(mode calculator.Mode) string {
	s := mode.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
