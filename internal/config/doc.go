// SPDX-License-Identifier: MPL-2.0

// Package config loads dexd settings using Viper with CUE as the file format.
//
// Settings come, in increasing precedence, from built-in defaults, a CUE
// file (--config, else $XDG_CONFIG_HOME/dexd/config.cue, else ./dexd.cue),
// and DEXD_* environment variables. Command-line flags are applied on top
// by the caller. The file is validated against the embedded #Config schema
// before it is merged.
package config
