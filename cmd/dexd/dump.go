// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/dexd/dexd/internal/aggregate"
	"github.com/dexd/dexd/internal/console"

	"github.com/spf13/cobra"
)

func newDumpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Build the aggregate once and print it as JSON",
		Long: `Build the aggregate once and print it to stdout, byte for byte what
GET /getdata would return, followed by a newline. Progress lines go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadSourceConfig(cmd)
			if err != nil {
				return err
			}

			logger := console.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			agg, err := newAggregator(cfg, logger, aggregate.WithIssueWriter(cmd.ErrOrStderr())).Build(cmd.Context())
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}
			body, err := agg.JSON()
			if err != nil {
				return &ExitError{Code: 1, Err: fmt.Errorf("encode aggregate: %w", err)}
			}

			out := cmd.OutOrStdout()
			if _, err := out.Write(body); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}
}
