// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strconv"

	"github.com/dexd/dexd/internal/markup"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Sidecar file names, in lookup order.
const (
	SidecarYAML = "info.yaml"
	SidecarTOML = "info.toml"
)

type sidecarFormat struct {
	name      string
	unmarshal func([]byte, any) error
}

var sidecarFormats = []sidecarFormat{
	{name: SidecarYAML, unmarshal: yaml.Unmarshal},
	{name: SidecarTOML, unmarshal: toml.Unmarshal},
}

// readSidecar finds and decodes the sidecar in module. It returns the path
// that was read ("" when the module has none) and the decoded mapping,
// which is nil for an empty file.
func readSidecar(fsys fs.FS, module string) (string, map[string]any, error) {
	for _, format := range sidecarFormats {
		name := path.Join(module, format.name)
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return name, nil, err
		}

		var values map[string]any
		if err := format.unmarshal(data, &values); err != nil {
			return name, nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return name, values, nil
	}
	return "", nil, nil
}

// applySidecar overlays values onto meta. Title and Category always come
// from the module path; strings are converted from markup to HTML.
func applySidecar(meta Metadata, values map[string]any) {
	for key, value := range values {
		switch key {
		case KeyTitle, KeyCategory:
			continue
		}
		if s, ok := value.(string); ok {
			value = markup.Markdown(s)
		}
		meta[key] = jsonSafe(value)
	}
}

// jsonSafe rewrites decoded values that encoding/json rejects: mappings
// with non-string keys get their keys stringified, and NaN or infinite
// floats become strings ("NaN", "+Inf", "-Inf").
func jsonSafe(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = jsonSafe(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = jsonSafe(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = jsonSafe(item)
		}
		return out
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'g', -1, 64)
		}
		return v
	case float32:
		return jsonSafe(float64(v))
	default:
		return v
	}
}
