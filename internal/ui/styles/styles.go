// Package styles holds the shared color tokens and styles for the demo UI.
// Tokens are adaptive so the same build works on light and dark terminals;
// a config theme can override the accent colors at startup.
package styles

import "github.com/charmbracelet/lipgloss"

// Color tokens. Mutable only through ApplyTheme, read everywhere else.
var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E5E5E5"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#4A4A4A", Dark: "#B0B0B0"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}

	HighlightColor = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	SubtleColor    = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#3A3A3A"}
	ErrorColor     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}

	SelectionBackgroundColor = lipgloss.AdaptiveColor{Light: "#E0D7F5", Dark: "#3B2D5E"}
	BorderDefaultColor       = lipgloss.AdaptiveColor{Light: "#C0C0C0", Dark: "#444444"}
)

// Styles derived from the tokens above. Rebuilt by ApplyTheme.
var (
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	SelectedStyle  = lipgloss.NewStyle().Background(SelectionBackgroundColor)
	MutedStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	HighlightStyle = lipgloss.NewStyle().Foreground(HighlightColor).Bold(true)
)

// ApplyTheme overrides the accent tokens from config values. Empty strings
// leave the built-in defaults in place. Values are hex colors applied to
// both light and dark variants.
func ApplyTheme(highlight, subtle, errColor string) {
	set := func(dst *lipgloss.AdaptiveColor, hex string) {
		if hex == "" {
			return
		}
		*dst = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}
	set(&HighlightColor, highlight)
	set(&SubtleColor, subtle)
	set(&ErrorColor, errColor)

	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	SelectedStyle = lipgloss.NewStyle().Background(SelectionBackgroundColor)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	HighlightStyle = lipgloss.NewStyle().Foreground(HighlightColor).Bold(true)
}
