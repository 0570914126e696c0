// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/dexd/dexd/internal/config"
	"github.com/dexd/dexd/internal/console"
	"github.com/dexd/dexd/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

const (
	// Name is the daemon name shown in the banner and response header.
	Name = "Dex"
	// Version is reported in the banner and the Dex-Version header.
	Version = "2.0.0"
)

// ErrSourceRequired is returned when no source directory was configured.
//
//nolint:staticcheck // user-facing message, printed verbatim
var ErrSourceRequired = errors.New("Dexfile source path is required. See 'dexd --help' for more")

type (
	// options holds the raw flag values. Flags only override the loaded
	// config when they were set on the command line.
	options struct {
		configFile string
		src        string
		dest       string
		host       string
		port       int
		verbose    bool
	}

	// app carries per-invocation state so tests can build independent
	// command trees.
	app struct {
		opts options
		// provider loads the config; nil means config.NewProvider().
		provider config.Provider
		// onServing, when set, is called with the bound address once the
		// server accepts connections.
		onServing func(addr string)
	}
)

// Execute runs the dexd command tree. It is called by main.main().
func Execute() {
	root := newRootCommand(&app{})
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "dexd",
		Short: "Serve compiled dexfiles to the Dex browser extension",
		Long: console.Bold("dexd") + console.Grey(" - the Dex development daemon") + `

dexd scans a dexfiles directory laid out as <host>/<module>/<file>,
compiles CoffeeScript and Sass through the coffee and sass programs on
your PATH, and serves the result as JSON on http://localhost:2345/getdata.
The tree is rebuilt on every request.

` + console.Bold("Examples:") + `
  dexd --src ~/dexfiles              Serve on localhost:2345
  dexd --src ~/dexfiles --port 2346  Serve on another port
  dexd dump --src ~/dexfiles         Print the aggregate once
  dexd modules --src ~/dexfiles      List modules by host
  dexd config show                   Show the effective configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.src, "src", "s", "", "dexfiles source directory")
	flags.StringVarP(&a.opts.dest, "dest", "d", "", "destination directory (accepted, currently unused)")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.opts.host, "host", "", "interface to listen on (default localhost)")
	flags.IntVar(&a.opts.port, "port", 0, "port to listen on (default 2345)")
	flags.StringVar(&a.opts.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/dexd/config.cue)")

	root.AddCommand(newDumpCommand(a))
	root.AddCommand(newModulesCommand(a))
	root.AddCommand(newConfigCommand(a))

	return root
}

// loadConfig resolves the effective configuration: defaults, config file,
// DEXD_* variables, then explicitly set flags.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	provider := a.provider
	if provider == nil {
		provider = config.NewProvider()
	}
	cfg, path, err := provider.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: a.opts.configFile})
	if err != nil {
		return nil, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("src") {
		cfg.Src = a.opts.src
	}
	if flags.Changed("dest") {
		cfg.Dest = a.opts.dest
	}
	if flags.Changed("host") {
		cfg.Host = a.opts.host
	}
	if flags.Changed("port") {
		cfg.Port = a.opts.port
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.opts.verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// loadSourceConfig is loadConfig for commands that need a source directory.
func (a *app) loadSourceConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, _, err := a.loadConfig(cmd)
	if err != nil {
		renderIssue(cmd.ErrOrStderr(), issue.ConfigLoadFailedId)
		return nil, &ExitError{Code: 1, Err: err}
	}
	if cfg.Src == "" {
		return nil, &ExitError{Code: 1, Err: ErrSourceRequired}
	}
	return cfg, nil
}

// renderIssue prints a catalogued issue, falling back to nothing when the
// markdown cannot be rendered.
func renderIssue(w io.Writer, id issue.Id) {
	rendered, err := issue.Get(id).Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; verbose mode shows the chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
