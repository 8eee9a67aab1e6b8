// Package styles provides colour themes and styling for the preview.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the preview.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Ink is the colour of set pixels.
	Ink lipgloss.Color

	// Paper is the colour of clear pixels.
	Paper lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Border:  lipgloss.Color("#45475A"), // Border gray
		Ink:     lipgloss.Color("#1E1E2E"), // Near black
		Paper:   lipgloss.Color("#E6E2D3"), // E-ink white
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the screen name.
	Title lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Warning style for dropped presses.
	Warning lipgloss.Style

	// Panel renders the frame as ink on paper inside a border.
	Panel lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Panel: lipgloss.NewStyle().
			Foreground(theme.Ink).
			Background(theme.Paper).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
