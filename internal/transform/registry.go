// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"strings"

	"github.com/charmbracelet/log"
)

// Family is the output type a source extension compiles to.
type Family string

const (
	// FamilyJS covers .js and .coffee sources.
	FamilyJS Family = "js"
	// FamilyCSS covers .css, .sass and .scss sources.
	FamilyCSS Family = "css"
)

// Extensions lists every source extension the daemon serves, without dots.
var Extensions = []string{"css", "sass", "scss", "js", "coffee"}

type (
	// Registry selects a Transformer by file extension.
	Registry struct {
		byExt map[string]Transformer
	}

	// Binaries names the compilers to look up on PATH.
	Binaries struct {
		Coffee string
		Sass   string
	}
)

// NewRegistry returns the registry used by the daemon: coffee is compiled
// by Coffee, sass and scss by Sass, and css and js have no transformer.
func NewRegistry(bins Binaries, logger *log.Logger) *Registry {
	r := &Registry{}
	sass := &Sass{Binary: bins.Sass, Logger: logger}
	r.Register("coffee", &Coffee{Binary: bins.Coffee, Logger: logger})
	r.Register("sass", sass)
	r.Register("scss", sass)
	return r
}

// Register installs t for ext, replacing any existing transformer.
func (r *Registry) Register(ext string, t Transformer) {
	if r.byExt == nil {
		r.byExt = make(map[string]Transformer)
	}
	r.byExt[normalizeExt(ext)] = t
}

// Lookup returns the transformer for ext. ok is false for extensions that
// are served verbatim.
func (r *Registry) Lookup(ext string) (t Transformer, ok bool) {
	t, ok = r.byExt[normalizeExt(ext)]
	return t, ok
}

// FamilyOf reports whether ext belongs to the JS or CSS family. ok is false
// for extensions the daemon does not serve.
func FamilyOf(ext string) (f Family, ok bool) {
	switch normalizeExt(ext) {
	case "js", "coffee":
		return FamilyJS, true
	case "css", "sass", "scss":
		return FamilyCSS, true
	default:
		return "", false
	}
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(ext, ".")
}
