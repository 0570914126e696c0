// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dexd/dexd/internal/testutil"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// These tests modify PATH and cannot run in parallel.

func TestCoffee_Transform(t *testing.T) {
	testutil.SkipOnWindows(t)

	bin := t.TempDir()
	// Echo stdin back with a prefix, then trailing blank lines to be trimmed.
	testutil.WriteScript(t, bin, "coffee", `[ "$1" = "-c" ] && [ "$2" = "-s" ] || exit 9
printf 'compiled: '
cat
printf '\n\n\n'`)
	testutil.PrependPath(t, bin)

	src := writeSource(t, t.TempDir(), "a.coffee", "alert 1")

	got, err := (&Coffee{}).Transform(context.Background(), src)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if got != "compiled: alert 1" {
		t.Errorf("Transform() = %q, want %q", got, "compiled: alert 1")
	}
}

func TestSass_Transform(t *testing.T) {
	testutil.SkipOnWindows(t)

	bin := t.TempDir()
	testutil.WriteScript(t, bin, "sass", `printf '/* from %s */\n' "$1"`)
	testutil.PrependPath(t, bin)

	src := writeSource(t, t.TempDir(), "a.scss", "a { b: c }")

	got, err := (&Sass{}).Transform(context.Background(), src)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if want := "/* from " + src + " */"; got != want {
		t.Errorf("Transform() = %q, want %q", got, want)
	}
}

func TestTransform_NotInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	src := writeSource(t, t.TempDir(), "a.coffee", "x = 1")

	tests := []struct {
		name        string
		transformer Transformer
		placeholder string
	}{
		{name: "coffee", transformer: &Coffee{}, placeholder: "/* coffeescript is not installed */"},
		{name: "sass", transformer: &Sass{}, placeholder: "/* sass gem is not installed */"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.transformer.Transform(context.Background(), src)
			if !errors.Is(err, ErrNotInstalled) {
				t.Fatalf("Transform() error = %v, want ErrNotInstalled", err)
			}

			var notInstalled *NotInstalledError
			if !errors.As(err, &notInstalled) {
				t.Fatalf("error should be *NotInstalledError, got %T", err)
			}
			if got := notInstalled.Placeholder(); got != tt.placeholder {
				t.Errorf("Placeholder() = %q, want %q", got, tt.placeholder)
			}
		})
	}
}

func TestTransform_CompileError(t *testing.T) {
	testutil.SkipOnWindows(t)

	bin := t.TempDir()
	testutil.WriteScript(t, bin, "sass", `echo "Error: expected \"}\"" >&2
exit 65`)
	testutil.PrependPath(t, bin)

	src := writeSource(t, t.TempDir(), "broken.scss", "a {")

	_, err := (&Sass{}).Transform(context.Background(), src)
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("Transform() error = %v, want ErrCompileFailed", err)
	}

	var compileErr *CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("error should be *CompileError, got %T", err)
	}
	if compileErr.ExitCode != 65 {
		t.Errorf("ExitCode = %d, want 65", compileErr.ExitCode)
	}
	if !strings.Contains(compileErr.Error(), "expected") {
		t.Errorf("Error() should include stderr, got %q", compileErr.Error())
	}
}

func TestCoffee_CustomBinary(t *testing.T) {
	testutil.SkipOnWindows(t)

	bin := t.TempDir()
	testutil.WriteScript(t, bin, "coffee2", `echo custom`)
	testutil.PrependPath(t, bin)

	src := writeSource(t, t.TempDir(), "a.coffee", "")

	got, err := (&Coffee{Binary: "coffee2"}).Transform(context.Background(), src)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if got != "custom" {
		t.Errorf("Transform() = %q, want %q", got, "custom")
	}
}

func TestCoffee_MissingCompilerWinsOverUnreadableSource(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	missing := filepath.Join(t.TempDir(), "gone.coffee")
	_, err := (&Coffee{}).Transform(context.Background(), missing)

	var notInstalled *NotInstalledError
	if !errors.As(err, &notInstalled) {
		t.Fatalf("Transform() error = %v, want *NotInstalledError", err)
	}
	if notInstalled.Placeholder() != "/* coffeescript is not installed */" {
		t.Errorf("Placeholder() = %q", notInstalled.Placeholder())
	}
}

func TestCoffee_UnreadableSource(t *testing.T) {
	testutil.SkipOnWindows(t)

	bin := t.TempDir()
	testutil.WriteScript(t, bin, "coffee", "cat")
	testutil.PrependPath(t, bin)

	_, err := (&Coffee{}).Transform(context.Background(), filepath.Join(t.TempDir(), "gone.coffee"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Transform() error = %v, want os.ErrNotExist", err)
	}
}

func TestCommandLine(t *testing.T) {
	t.Parallel()

	got := commandLine("/usr/bin/coffee", invocation{
		args:      []string{"-c", "-s"},
		stdinPath: "blog/my widget/a.coffee",
		path:      "blog/my widget/a.coffee",
	})
	if !strings.HasPrefix(got, "/usr/bin/coffee -c -s < ") {
		t.Errorf("commandLine() = %q", got)
	}
	if !strings.Contains(got, "'blog/my widget/a.coffee'") {
		t.Errorf("commandLine() should quote the path with spaces, got %q", got)
	}
}
