// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/dexd/dexd/internal/issue"
	"github.com/dexd/dexd/internal/transform"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

var (
	// ErrSourceNotFound is returned when the source directory does not exist.
	ErrSourceNotFound = errors.New("source directory not found")
	// ErrSourceNotDirectory is returned when the source path is a file.
	ErrSourceNotDirectory = errors.New("source path is not a directory")
)

// patterns select host-wide files and module files.
var patterns = func() []string {
	exts := "{" + strings.Join(transform.Extensions, ",") + "}"
	return []string{"*/*." + exts, "*/*/*." + exts}
}()

type (
	// TransformerLookup selects the compiler for an extension.
	// *transform.Registry satisfies it.
	TransformerLookup interface {
		Lookup(ext string) (transform.Transformer, bool)
	}

	// Aggregator builds Config values from a source directory.
	Aggregator struct {
		src          string
		transformers TransformerLookup
		logger       *log.Logger

		issues               io.Writer
		notInstalledReported atomic.Bool
	}

	// Option configures an Aggregator.
	Option func(*Aggregator)

	// sourceFile is one matched path, relative to the source root.
	sourceFile struct {
		rel    string
		module string
		ext    string
		parts  []string
	}
)

// WithIssueWriter makes the aggregator render the "compiler not installed"
// issue to w the first time any of its builds meets a missing compiler.
func WithIssueWriter(w io.Writer) Option {
	return func(a *Aggregator) {
		a.issues = w
	}
}

// New returns an Aggregator for src. A nil logger discards progress output.
func New(src string, transformers TransformerLookup, logger *log.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &Aggregator{src: src, transformers: transformers, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build scans the source tree and returns a freshly built Config.
func (a *Aggregator) Build(ctx context.Context) (*Config, error) {
	root, err := ResolveSource(a.src)
	if err != nil {
		return nil, err
	}

	fsys := os.DirFS(root)
	files, err := a.match(fsys)
	if err != nil {
		return nil, issue.WrapWithContext(err, "scan source directory", root)
	}

	cfg := newConfig()
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build aggregate: %w", err)
		}
		a.add(ctx, cfg, fsys, root, f)
	}

	return cfg, nil
}

// ResolveSource returns the absolute, symlink-free form of src and checks
// that it is a directory.
func ResolveSource(src string) (string, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", issue.WrapWithContext(err, "resolve source directory", src)
	}

	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrSourceNotFound, err)
		}
		return "", issue.NewErrorContext().
			WithOperation("resolve source directory").
			WithResource(abs).
			WithSuggestion("Check the --src path for typos").
			Wrap(err).
			BuildError()
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", issue.WrapWithContext(err, "resolve source directory", root)
	}
	if !info.IsDir() {
		return "", issue.NewErrorContext().
			WithOperation("resolve source directory").
			WithResource(root).
			WithSuggestion("Point --src at the directory holding one folder per host").
			Wrap(ErrSourceNotDirectory).
			BuildError()
	}

	return root, nil
}

// match returns every regular, non-hidden source file in lexical order.
func (a *Aggregator) match(fsys fs.FS) ([]sourceFile, error) {
	var rels []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		rels = append(rels, matches...)
	}
	slices.Sort(rels)

	files := make([]sourceFile, 0, len(rels))
	for _, rel := range rels {
		parts := strings.Split(rel, "/")
		if slices.ContainsFunc(parts, isHidden) {
			continue
		}
		info, err := fs.Stat(fsys, rel)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, sourceFile{
			rel:    rel,
			module: path.Dir(rel),
			ext:    strings.TrimPrefix(path.Ext(rel), "."),
			parts:  parts,
		})
	}
	return files, nil
}

// add processes one file into cfg.
func (a *Aggregator) add(ctx context.Context, cfg *Config, fsys fs.FS, root string, f sourceFile) {
	files := cfg.filesFor(f.module)

	// Host-wide files such as "global/setup.js" belong to no module.
	if len(f.parts) > 2 {
		a.describe(cfg, fsys, f)
	}

	content, action := a.content(ctx, fsys, root, f)
	a.logger.Info(action + " " + f.rel)

	family, _ := transform.FamilyOf(f.ext)
	switch family {
	case transform.FamilyJS:
		files.JS = append(files.JS, f.rel)
		content = strings.Join([]string{
			"console.groupCollapsed(" + strconv.Quote(f.rel) + ");",
			content,
			"console.groupEnd();",
		}, "\n\n")
	case transform.FamilyCSS:
		files.CSS = append(files.CSS, f.rel)
		content = strings.Join([]string{
			"/* @start " + f.rel + " */",
			content,
			"/* @end " + f.rel + " */",
		}, "\n\n")
	}

	cfg.ContentsByFile[f.rel] = content
}

// describe registers the module of f under its host and records its
// metadata.
func (a *Aggregator) describe(cfg *Config, fsys fs.FS, f sourceFile) {
	host := f.parts[0]
	cfg.addModule(host, f.module)

	meta := defaultMetadata(host, f.parts[1])
	name, values, err := readSidecar(fsys, f.module)
	switch {
	case err != nil:
		a.logger.Warn("Ignoring sidecar", "file", name, "err", err)
	case name != "":
		a.logger.Info("  Loading '" + name + "'")
		applySidecar(meta, values)
	}
	cfg.Metadata[f.module] = meta
}

// content compiles or reads f and reports which of the two happened.
func (a *Aggregator) content(ctx context.Context, fsys fs.FS, root string, f sourceFile) (string, string) {
	fallback := "/* Error: " + f.rel + " */"

	t, ok := a.transformers.Lookup(f.ext)
	if !ok {
		data, err := fs.ReadFile(fsys, f.rel)
		if err != nil {
			a.logger.Error("Read failed", "file", f.rel, "err", err)
			return fallback, "Copied"
		}
		return string(data), "Copied"
	}

	out, err := t.Transform(ctx, filepath.Join(root, filepath.FromSlash(f.rel)))
	if err != nil {
		var notInstalled *transform.NotInstalledError
		if errors.As(err, &notInstalled) {
			a.logger.Warn(notInstalled.Error(), "file", f.rel)
			a.reportNotInstalled()
			return notInstalled.Placeholder(), "Compiled"
		}
		a.logger.Error("Compile failed", "file", f.rel, "err", err)
		return fallback, "Compiled"
	}
	return out, "Compiled"
}

// reportNotInstalled renders the install instructions once per aggregator.
func (a *Aggregator) reportNotInstalled() {
	if a.issues == nil || !a.notInstalledReported.CompareAndSwap(false, true) {
		return
	}
	rendered, err := issue.Get(issue.CompilerNotInstalledId).Render("dark")
	if err != nil {
		a.logger.Debug("render issue", "err", err)
		return
	}
	fmt.Fprint(a.issues, rendered)
}

func isHidden(segment string) bool {
	return strings.HasPrefix(segment, ".")
}
