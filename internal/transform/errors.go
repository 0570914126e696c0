// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotInstalled is the sentinel wrapped by NotInstalledError.
	ErrNotInstalled = errors.New("compiler not installed")

	// ErrCompileFailed is the sentinel wrapped by CompileError.
	ErrCompileFailed = errors.New("compile failed")
)

type (
	// NotInstalledError is returned when the compiler binary cannot be found
	// on PATH.
	NotInstalledError struct {
		// Compiler is the binary that was looked up, e.g. "coffee".
		Compiler string
		// placeholder is the comment served instead of compiled output.
		placeholder string
	}

	// CompileError is returned when the compiler ran but exited non-zero or
	// could not be started.
	CompileError struct {
		Compiler string
		Path     string
		ExitCode int
		Stderr   string
		Err      error
	}
)

// Error implements the error interface.
func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("%s is not installed", e.Compiler)
}

// Unwrap returns ErrNotInstalled for errors.Is() compatibility.
func (e *NotInstalledError) Unwrap() error { return ErrNotInstalled }

// Placeholder returns the CSS/JS comment served in place of the compiled file.
func (e *NotInstalledError) Placeholder() string {
	if e.placeholder != "" {
		return e.placeholder
	}
	return fmt.Sprintf("/* %s is not installed */", e.Compiler)
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s %s: exit status %d", e.Compiler, e.Path, e.ExitCode)
	if e.Err != nil {
		fmt.Fprintf(&msg, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg.WriteString(": ")
		msg.WriteString(stderr)
	}
	return msg.String()
}

// Unwrap returns ErrCompileFailed and the underlying exec error.
func (e *CompileError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCompileFailed, e.Err}
	}
	return []error{ErrCompileFailed}
}
