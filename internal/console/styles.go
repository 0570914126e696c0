// SPDX-License-Identifier: MPL-2.0

package console

import "github.com/charmbracelet/lipgloss"

// Palette used for everything the daemon prints to stderr.
const (
	// ColorRed marks failures and blank requests.
	ColorRed = lipgloss.Color("#EF4444")

	// ColorGreen marks the banner and routed requests.
	ColorGreen = lipgloss.Color("#10B981")

	// ColorGrey marks separators and de-emphasised text.
	ColorGrey = lipgloss.Color("#6B7280")

	// ColorAmber marks warnings.
	ColorAmber = lipgloss.Color("#F59E0B")
)

var (
	redStyle       = lipgloss.NewStyle().Foreground(ColorRed)
	greenStyle     = lipgloss.NewStyle().Foreground(ColorGreen)
	greyStyle      = lipgloss.NewStyle().Foreground(ColorGrey)
	boldStyle      = lipgloss.NewStyle().Bold(true)
	underlineStyle = lipgloss.NewStyle().Underline(true)

	// WarningStyle is for the "Warning: " prefix of non-fatal CLI messages.
	WarningStyle = lipgloss.NewStyle().Foreground(ColorAmber)
)

// Separator is printed between requests.
const Separator = "=========="

// Red renders text in red.
func Red(text string) string { return redStyle.Render(text) }

// Green renders text in green.
func Green(text string) string { return greenStyle.Render(text) }

// Grey renders text in grey.
func Grey(text string) string { return greyStyle.Render(text) }

// Bold renders text in bold.
func Bold(text string) string { return boldStyle.Render(text) }

// Underline renders text underlined.
func Underline(text string) string { return underlineStyle.Render(text) }
