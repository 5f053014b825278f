package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors for status indication. ANSI codes so output follows the
// user's terminal theme.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

var (
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	warningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Success renders "✓ msg" in green.
func Success(msg string) string {
	return successStyle.Render(SymbolSuccess) + " " + msg
}

// Fail renders "✗ msg" in red.
func Fail(msg string) string {
	return errorStyle.Render(SymbolFail) + " " + msg
}

// Warn renders "⚠ msg" in yellow.
func Warn(msg string) string {
	return warningStyle.Render(SymbolWarning) + " " + msg
}

// Muted renders secondary text.
func Muted(msg string) string {
	return mutedStyle.Render(msg)
}
