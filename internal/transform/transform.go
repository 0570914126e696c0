// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// DefaultCoffeeBinary is the CoffeeScript compiler looked up on PATH.
	DefaultCoffeeBinary = "coffee"
	// DefaultSassBinary is the Sass compiler looked up on PATH.
	DefaultSassBinary = "sass"
)

type (
	// Transformer compiles the source file at path into text.
	Transformer interface {
		Transform(ctx context.Context, path string) (string, error)
	}

	// Coffee compiles CoffeeScript by piping the file to `coffee -c -s`.
	Coffee struct {
		// Binary is the compiler name or path; empty means DefaultCoffeeBinary.
		Binary string
		Logger *log.Logger
	}

	// Sass compiles Sass and SCSS by running `sass <path>`.
	Sass struct {
		// Binary is the compiler name or path; empty means DefaultSassBinary.
		Binary string
		Logger *log.Logger
	}

	// invocation is one external compiler run. When stdinPath is set the
	// file is opened after the binary is found and piped to it.
	invocation struct {
		binary      string
		args        []string
		stdinPath   string
		placeholder string
		path        string
	}
)

// Transform implements Transformer.
func (c *Coffee) Transform(ctx context.Context, path string) (string, error) {
	return run(ctx, c.Logger, invocation{
		binary:      orDefault(c.Binary, DefaultCoffeeBinary),
		args:        []string{"-c", "-s"},
		stdinPath:   path,
		placeholder: "/* coffeescript is not installed */",
		path:        path,
	})
}

// Transform implements Transformer.
func (s *Sass) Transform(ctx context.Context, path string) (string, error) {
	return run(ctx, s.Logger, invocation{
		binary:      orDefault(s.Binary, DefaultSassBinary),
		args:        []string{path},
		placeholder: "/* sass gem is not installed */",
		path:        path,
	})
}

// run resolves the binary on PATH and executes it. The lookup is repeated on
// every call so installing a compiler takes effect on the next request.
func run(ctx context.Context, logger *log.Logger, inv invocation) (string, error) {
	resolved, err := exec.LookPath(inv.binary)
	if err != nil {
		return "", &NotInstalledError{Compiler: inv.binary, placeholder: inv.placeholder}
	}

	if logger != nil {
		logger.Debug("running compiler", "cmd", commandLine(resolved, inv))
	}

	var stdin io.Reader
	if inv.stdinPath != "" {
		src, err := os.Open(inv.stdinPath)
		if err != nil {
			return "", err
		}
		defer src.Close()
		stdin = src
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, resolved, inv.args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		compileErr := &CompileError{
			Compiler: inv.binary,
			Path:     inv.path,
			ExitCode: -1,
			Stderr:   stderr.String(),
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			compileErr.ExitCode = exitErr.ExitCode()
		} else {
			compileErr.Err = err
		}
		return "", compileErr
	}

	return strings.TrimSpace(stdout.String()), nil
}

// commandLine renders the invocation as a shell line for debug output, e.g.
// `coffee -c -s < 'blog/my widget/a.coffee'`.
func commandLine(resolved string, inv invocation) string {
	words := append([]string{resolved}, inv.args...)
	quoted := make([]string, 0, len(words)+2)
	for _, w := range words {
		quoted = append(quoted, quote(w))
	}
	if inv.stdinPath != "" {
		quoted = append(quoted, "<", quote(inv.stdinPath))
	}
	return strings.Join(quoted, " ")
}

func quote(word string) string {
	q, err := syntax.Quote(word, syntax.LangBash)
	if err != nil {
		return word
	}
	return q
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
