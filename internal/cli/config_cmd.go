package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/calc/internal/config"
)

// ConfigOptions holds flags for the config commands.
type ConfigOptions struct {
	*RootOptions
	Force bool
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the calc config file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Long: `Write the default config file to --config (default ~/.calc/config.yaml).

Refuses to overwrite an existing file unless --force is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(opts, cmd)
		},
	}
	initCmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:           "show",
		Short:         "Print the effective configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(opts, cmd)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func runConfigInit(opts *ConfigOptions, cmd *cobra.Command) error {
	path, err := config.WriteDefault(opts.ConfigPath, opts.Force)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write config", err)
	}
	return newFormatter(cmd, opts.RootOptions).Success(
		map[string]string{"path": path},
		fmt.Sprintf("Wrote %s\n", path),
	)
}

func runConfigShow(opts *ConfigOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode config", err)
	}
	return newFormatter(cmd, opts.RootOptions).Success(cfg, string(data))
}
