// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Metadata keys every module record carries.
const (
	KeyAuthor      = "Author"
	KeyTitle       = "Title"
	KeyCategory    = "Category"
	KeyDescription = "Description"
	KeyURL         = "URL"
)

const (
	// HostGlobal is the host category served on every page.
	HostGlobal = "global"
	// HostUtilities is the host category for opt-in helper modules.
	HostUtilities = "utilities"
)

type (
	// Metadata describes one module. Values are strings, nil, or whatever the
	// sidecar file decoded to.
	Metadata map[string]any

	// FileLists holds the source paths of a module, split by output family.
	FileLists struct {
		CSS []string `json:"css"`
		JS  []string `json:"js"`
	}

	// Config is the aggregate served by /getdata.
	Config struct {
		// Metadata is keyed by module path ("blog/widget").
		Metadata map[string]Metadata `json:"metadata"`
		// ModulesByHost maps a host category to its sorted module paths.
		ModulesByHost map[string][]string `json:"modulesByHost"`
		// FilesByModule maps a module path, or a bare host for host-wide
		// files, to its source files.
		FilesByModule map[string]*FileLists `json:"filesByModule"`
		// ContentsByFile maps every source path to its wrapped content.
		ContentsByFile map[string]string `json:"contentsByFile"`
	}
)

func newConfig() *Config {
	return &Config{
		Metadata: map[string]Metadata{},
		ModulesByHost: map[string][]string{
			HostGlobal:    {},
			HostUtilities: {},
		},
		FilesByModule: map[string]*FileLists{
			HostGlobal: newFileLists(),
		},
		ContentsByFile: map[string]string{},
	}
}

func newFileLists() *FileLists {
	return &FileLists{CSS: []string{}, JS: []string{}}
}

// defaultMetadata returns the record for a module before its sidecar is
// applied.
func defaultMetadata(host, module string) Metadata {
	return Metadata{
		KeyAuthor:      nil,
		KeyTitle:       module,
		KeyCategory:    host,
		KeyDescription: nil,
		KeyURL:         nil,
	}
}

// addModule registers module under host, keeping the list sorted and free
// of duplicates.
func (c *Config) addModule(host, module string) {
	mods := c.ModulesByHost[host]
	i, found := slices.BinarySearch(mods, module)
	if found {
		return
	}
	c.ModulesByHost[host] = slices.Insert(mods, i, module)
}

// filesFor returns the file lists of module, creating them on first use.
func (c *Config) filesFor(module string) *FileLists {
	files, ok := c.FilesByModule[module]
	if !ok {
		files = newFileLists()
		c.FilesByModule[module] = files
	}
	return files
}

// JSON encodes the config. HTML is not escaped so markup converted from
// sidecar files reaches the client as written. Object keys are sorted,
// so an unchanged tree always encodes to the same bytes.
func (c *Config) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
