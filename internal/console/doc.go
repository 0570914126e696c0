// SPDX-License-Identifier: MPL-2.0

// Package console holds the terminal presentation shared by the daemon:
// the lipgloss palette, colour helpers over plain strings, the separator
// and banner lines, and the charmbracelet/log logger every component
// writes progress to.
package console
