// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dexd/dexd/internal/issue"
	"github.com/dexd/dexd/internal/testutil"
)

// isolated returns options that cannot see the developer's real config files.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{ConfigDirPath: t.TempDir(), WorkDir: t.TempDir()}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 2345 {
		t.Errorf("Port = %d, want 2345", cfg.Port)
	}
	if cfg.Compilers.Coffee != "coffee" || cfg.Compilers.Sass != "sass" {
		t.Errorf("Compilers = %+v, want coffee/sass", cfg.Compilers)
	}
	if cfg.Src != "" || cfg.Dest != "" || cfg.Verbose {
		t.Errorf("unexpected non-zero defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, path, `
src:  "/srv/dexfiles"
port: 4000
compilers: sass: "sassc"
`)

	opts := isolated(t)
	opts.ConfigFilePath = path
	cfg, resolved, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Src != "/srv/dexfiles" {
		t.Errorf("Src = %q", cfg.Src)
	}
	if cfg.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Port)
	}
	if cfg.Compilers.Sass != "sassc" {
		t.Errorf("Compilers.Sass = %q, want sassc", cfg.Compilers.Sass)
	}
	if cfg.Compilers.Coffee != "coffee" {
		t.Errorf("Compilers.Coffee = %q, want default", cfg.Compilers.Coffee)
	}
	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want default", cfg.Host)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	opts.ConfigFilePath = filepath.Join(t.TempDir(), "absent.cue")
	_, _, err := Load(context.Background(), opts)
	if err == nil {
		t.Fatal("Load() expected error")
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("errors.Is(err, ErrConfigNotFound) = false: %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error is not *issue.ActionableError: %T", err)
	}
	if ae.Resource != opts.ConfigFilePath {
		t.Errorf("Resource = %q, want %q", ae.Resource, opts.ConfigFilePath)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"port type", `port: "high"`},
		{"port range", `port: 70000`},
		{"empty host", `host: ""`},
		{"unknown field", `watch: true`},
		{"syntax", `port: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "bad.cue")
			testutil.MustWriteFile(t, path, tt.content)

			opts := isolated(t)
			opts.ConfigFilePath = path
			_, _, err := Load(context.Background(), opts)
			if err == nil {
				t.Fatalf("Load(%q) expected error", tt.content)
			}
			if !strings.Contains(err.Error(), "load configuration") {
				t.Errorf("error %q does not name the operation", err)
			}
		})
	}
}

func TestLoad_LookupOrder(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	dirFile := filepath.Join(opts.ConfigDirPath, ConfigFileName)
	localFile := filepath.Join(opts.WorkDir, LocalConfigFileName)

	testutil.MustWriteFile(t, localFile, "port: 3000\n")
	cfg, resolved, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if resolved != localFile || cfg.Port != 3000 {
		t.Errorf("local lookup: resolved %q port %d", resolved, cfg.Port)
	}

	testutil.MustWriteFile(t, dirFile, "port: 3001\n")
	cfg, resolved, err = Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if resolved != dirFile || cfg.Port != 3001 {
		t.Errorf("config dir lookup: resolved %q port %d", resolved, cfg.Port)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("DEXD_PORT", "5555")
	t.Setenv("DEXD_COMPILERS_COFFEE", "/opt/bin/coffee")
	t.Setenv("DEXD_VERBOSE", "true")

	opts := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), "port: 4000\n")

	cfg, _, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 5555 {
		t.Errorf("Port = %d, want 5555 from env", cfg.Port)
	}
	if cfg.Compilers.Coffee != "/opt/bin/coffee" {
		t.Errorf("Compilers.Coffee = %q", cfg.Compilers.Coffee)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true from env")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("DEXD_HOST", "  ")

	_, _, err := Load(context.Background(), isolated(t))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := Load(ctx, isolated(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.Src = "/tmp/dexfiles"
	want.Port = 2400
	want.Verbose = true
	want.Compilers.Sass = "sassc"

	path := filepath.Join(t.TempDir(), "generated.cue")
	testutil.MustWriteFile(t, path, GenerateCUE(want))

	opts := isolated(t)
	opts.ConfigFilePath = path
	got, _, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load(GenerateCUE()) error: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"blank host", func(c *Config) { c.Host = " " }, "host"},
		{"negative port", func(c *Config) { c.Port = -1 }, "port"},
		{"large port", func(c *Config) { c.Port = 65536 }, "port"},
		{"blank src", func(c *Config) { c.Src = "   " }, "src"},
		{"empty coffee", func(c *Config) { c.Compilers.Coffee = "" }, "compilers.coffee"},
		{"empty sass", func(c *Config) { c.Compilers.Sass = "" }, "compilers.sass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var ice *InvalidConfigError
			if !errors.As(err, &ice) {
				t.Fatalf("Validate() = %v, want *InvalidConfigError", err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("errors.Is(err, ErrInvalidConfig) = false")
			}
			if len(ice.FieldErrors) != 1 || !strings.HasPrefix(ice.FieldErrors[0], tt.field+":") {
				t.Errorf("FieldErrors = %v, want one entry for %s", ice.FieldErrors, tt.field)
			}
		})
	}
}

func TestProvider_Load(t *testing.T) {
	t.Parallel()

	cfg, path, err := NewProvider().Load(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Provider.Load() error: %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("Port = %d", cfg.Port)
	}
	if path != "" {
		t.Errorf("path = %q, want empty without a config file", path)
	}
}
