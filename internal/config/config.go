// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dexd/dexd/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name used for the config directory.
	AppName = "dexd"
	// ConfigFileName is the name of the config file inside ConfigDir.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is the config file looked up in the working directory.
	LocalConfigFileName = "dexd.cue"
	// EnvPrefix prefixes every environment override, e.g. DEXD_PORT.
	EnvPrefix = "DEXD"

	// maxFileSize bounds config files read from disk.
	maxFileSize = 1 << 20
)

// ErrConfigNotFound is returned when an explicitly requested config file is missing.
var ErrConfigNotFound = errors.New("config file not found")

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns $XDG_CONFIG_HOME/dexd, defaulting to ~/.config/dexd.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

// Load resolves the configuration and reports the file it was read from,
// or "" when only defaults and environment variables apply.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("src", defaults.Src)
	v.SetDefault("dest", defaults.Dest)
	v.SetDefault("host", defaults.Host)
	v.SetDefault("port", defaults.Port)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("compilers.coffee", defaults.Compilers.Coffee)
	v.SetDefault("compilers.sass", defaults.Compilers.Sass)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the expected schema").
				WithSuggestion("Use 'dexd config show' to see the default configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check DEXD_* environment variables for empty or out-of-range values").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigPath applies the lookup order: the explicit path exclusively,
// then the config directory, then the working directory.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	if p := filepath.Join(cfgDir, ConfigFileName); fileExists(p) {
		return p, nil
	}

	local := LocalConfigFileName
	if opts.WorkDir != "" {
		local = filepath.Join(opts.WorkDir, LocalConfigFileName)
	}
	if fileExists(local) {
		return local, nil
	}

	return "", nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges the
// decoded map into v. Fields are optional, hence Concrete(false).
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxFileSize {
		return fmt.Errorf("config file %s exceeds %d bytes", path, maxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func formatCUEError(err error) error {
	return fmt.Errorf("invalid config: %s", strings.TrimSpace(cueerrors.Details(err, nil)))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a CUE document accepted by #Config.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// dexd configuration\n\n")
	if cfg.Src != "" {
		fmt.Fprintf(&sb, "src: %q\n", cfg.Src)
	}
	if cfg.Dest != "" {
		fmt.Fprintf(&sb, "dest: %q\n", cfg.Dest)
	}
	fmt.Fprintf(&sb, "host: %q\n", cfg.Host)
	fmt.Fprintf(&sb, "port: %d\n", cfg.Port)
	fmt.Fprintf(&sb, "verbose: %t\n", cfg.Verbose)
	sb.WriteString("\ncompilers: {\n")
	fmt.Fprintf(&sb, "\tcoffee: %q\n", cfg.Compilers.Coffee)
	fmt.Fprintf(&sb, "\tsass:   %q\n", cfg.Compilers.Sass)
	sb.WriteString("}\n")

	return sb.String()
}
