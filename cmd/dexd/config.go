// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/dexd/dexd/internal/config"
	"github.com/dexd/dexd/internal/console"
	"github.com/dexd/dexd/internal/issue"

	"github.com/spf13/cobra"
)

func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect dexd configuration",
		Long: `Inspect the effective configuration.

Settings are read from the --config file, else
$XDG_CONFIG_HOME/dexd/config.cue, else ./dexd.cue, then DEXD_* environment
variables (DEXD_PORT, DEXD_COMPILERS_SASS, ...), then command-line flags.`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := a.loadConfig(cmd)
			if err != nil {
				renderIssue(cmd.ErrOrStderr(), issue.ConfigLoadFailedId)
				return &ExitError{Code: 1, Err: err}
			}

			out := cmd.OutOrStdout()
			if path == "" {
				path = "(defaults)"
			}
			fmt.Fprintln(out, console.Grey("// source: "+path))
			fmt.Fprint(out, config.GenerateCUE(cfg))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file dexd would read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, path, err := a.loadConfig(cmd)
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			if path == "" {
				dir, err := config.ConfigDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), console.Grey("no config file found; dexd looks for "+dir+"/"+config.ConfigFileName))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return configCmd
}
