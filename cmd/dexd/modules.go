// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dexd/dexd/internal/aggregate"
	"github.com/dexd/dexd/internal/console"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// describedKeys are shown first, in this order; other sidecar keys follow
// alphabetically.
var describedKeys = []string{
	aggregate.KeyAuthor,
	aggregate.KeyDescription,
	aggregate.KeyURL,
}

func newModulesCommand(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List modules by host with their metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadSourceConfig(cmd)
			if err != nil {
				return err
			}

			logger := console.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			agg, err := newAggregator(cfg, logger, aggregate.WithIssueWriter(cmd.ErrOrStderr())).Build(cmd.Context())
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			md := modulesMarkdown(agg)
			if !plain {
				rendered, err := glamour.Render(md, "dark")
				if err == nil {
					md = rendered
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown instead of rendering it")
	return cmd
}

// modulesMarkdown lists every host with its modules and their metadata.
// Hosts without modules are listed with their loose files only.
func modulesMarkdown(cfg *aggregate.Config) string {
	var sb strings.Builder

	hosts := slices.Sorted(maps.Keys(cfg.ModulesByHost))
	for _, host := range hosts {
		fmt.Fprintf(&sb, "# %s\n\n", host)

		if files, ok := cfg.FilesByModule[host]; ok {
			writeFiles(&sb, files)
		}

		modules := cfg.ModulesByHost[host]
		if len(modules) == 0 {
			sb.WriteString("_no modules_\n\n")
			continue
		}

		for _, module := range modules {
			meta := cfg.Metadata[module]
			fmt.Fprintf(&sb, "## %s\n\n", module)
			fmt.Fprintf(&sb, "**%v** in _%v_\n\n", meta[aggregate.KeyTitle], meta[aggregate.KeyCategory])

			for _, key := range describedKeys {
				if v := meta[key]; v != nil {
					fmt.Fprintf(&sb, "- %s: %v\n", key, v)
				}
			}
			for _, key := range slices.Sorted(maps.Keys(meta)) {
				if isReserved(key) {
					continue
				}
				fmt.Fprintf(&sb, "- %s: %v\n", key, meta[key])
			}
			sb.WriteString("\n")

			if files, ok := cfg.FilesByModule[module]; ok {
				writeFiles(&sb, files)
			}
		}
	}

	return sb.String()
}

func writeFiles(sb *strings.Builder, files *aggregate.FileLists) {
	if len(files.CSS) == 0 && len(files.JS) == 0 {
		return
	}
	for _, f := range files.CSS {
		fmt.Fprintf(sb, "- `%s`\n", f)
	}
	for _, f := range files.JS {
		fmt.Fprintf(sb, "- `%s`\n", f)
	}
	sb.WriteString("\n")
}

func isReserved(key string) bool {
	return key == aggregate.KeyTitle || key == aggregate.KeyCategory || slices.Contains(describedKeys, key)
}
