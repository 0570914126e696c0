// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/dexd/dexd/internal/aggregate"
	"github.com/dexd/dexd/internal/config"
	"github.com/dexd/dexd/internal/console"
	"github.com/dexd/dexd/internal/issue"
	"github.com/dexd/dexd/internal/server"
	"github.com/dexd/dexd/internal/transform"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// runServe serves the aggregate until the command context is cancelled.
func (a *app) runServe(cmd *cobra.Command) error {
	cfg, err := a.loadSourceConfig(cmd)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := console.NewLogger(stderr, cfg.Verbose)

	// The tree is resolved again on every request, so a bad source only
	// warns here.
	if _, err := aggregate.ResolveSource(cfg.Src); err != nil {
		if errors.Is(err, aggregate.ErrSourceNotDirectory) {
			renderIssue(stderr, issue.SourceNotDirectoryId)
		} else {
			renderIssue(stderr, issue.SourceNotFoundId)
		}
		fmt.Fprintln(stderr, console.WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, cfg.Verbose))
	}

	console.Banner(stderr, Name, Version, cfg.Src, cfg.Port)

	srv := server.New(server.Config{
		Host:    cfg.Host,
		Port:    cfg.Port,
		Name:    Name,
		Version: Version,
	}, server.NewDexRouter(newAggregator(cfg, logger, aggregate.WithIssueWriter(stderr))), logger)

	ctx := cmd.Context()
	if err := srv.Start(ctx); err != nil {
		renderIssue(stderr, issue.ListenFailedId)
		return &ExitError{Code: 1, Err: err}
	}
	logger.Debug("listening", "url", srv.URL())
	if a.onServing != nil {
		a.onServing(srv.Addr())
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-srv.Err():
		if ok && err != nil {
			serveErr = &ExitError{Code: 1, Err: fmt.Errorf("server stopped: %w", err)}
		}
	}

	if err := srv.Stop(); err != nil && serveErr == nil {
		serveErr = &ExitError{Code: 1, Err: err}
	}
	console.Farewell(stderr)
	return serveErr
}

// newAggregator wires the compiler registry into an aggregator for cfg.
func newAggregator(cfg *config.Config, logger *log.Logger, opts ...aggregate.Option) *aggregate.Aggregator {
	registry := transform.NewRegistry(transform.Binaries{
		Coffee: cfg.Compilers.Coffee,
		Sass:   cfg.Compilers.Sass,
	}, logger)
	return aggregate.New(cfg.Src, registry, logger, opts...)
}
