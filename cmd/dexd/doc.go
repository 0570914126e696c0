// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the dexd command tree.
//
// The root command serves the dexfile aggregate over HTTP until it receives
// SIGINT or SIGTERM. Subcommands build the same aggregate once (dump,
// modules) or inspect the effective configuration (config).
package cmd
