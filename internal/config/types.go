// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the resolved daemon configuration, passed explicitly to
	// the aggregator and server.
	Config struct {
		// Src is the dexfile source directory.
		Src string `json:"src" mapstructure:"src"`
		// Dest is accepted for compatibility and not used by any component.
		Dest string `json:"dest" mapstructure:"dest"`
		// Host is the interface the server binds to.
		Host string `json:"host" mapstructure:"host"`
		// Port is the TCP port clients poll.
		Port int `json:"port" mapstructure:"port"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Compilers names the external compiler binaries.
		Compilers CompilersConfig `json:"compilers" mapstructure:"compilers"`
	}

	// CompilersConfig names the binaries looked up on PATH.
	CompilersConfig struct {
		Coffee string `json:"coffee" mapstructure:"coffee"`
		Sass   string `json:"sass" mapstructure:"sass"`
	}

	// InvalidConfigError lists every field that failed validation.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []string
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Host: "localhost",
		Port: 2345,
		Compilers: CompilersConfig{
			Coffee: "coffee",
			Sass:   "sass",
		},
	}
}

// Validate checks the values CUE cannot see once flags and environment
// variables have been applied. An empty Src is valid here; the serve
// command reports it separately.
func (c *Config) Validate() error {
	var fieldErrs []string

	if c.Src != "" && strings.TrimSpace(c.Src) == "" {
		fieldErrs = append(fieldErrs, "src: must not be whitespace-only")
	}
	if strings.TrimSpace(c.Host) == "" {
		fieldErrs = append(fieldErrs, "host: must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		fieldErrs = append(fieldErrs, fmt.Sprintf("port: %d is out of range 0-65535", c.Port))
	}
	if strings.TrimSpace(c.Compilers.Coffee) == "" {
		fieldErrs = append(fieldErrs, "compilers.coffee: must not be empty")
	}
	if strings.TrimSpace(c.Compilers.Sass) == "" {
		fieldErrs = append(fieldErrs, "compilers.sass: must not be empty")
	}

	if len(fieldErrs) > 0 {
		return &InvalidConfigError{FieldErrors: fieldErrs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", strings.Join(e.FieldErrors, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
