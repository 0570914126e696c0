// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on setup
// errors: fixture trees, fake compiler scripts, PATH isolation and
// server shutdown.
package testutil
