package ui

import "github.com/charmbracelet/lipgloss"

// Theme centralizes the panel styling. A single default theme, but keeping
// all colors in one place makes per-fixture themes trivial.
type Theme struct {
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Neutral lipgloss.Style

	Cell  lipgloss.Style
	Label lipgloss.Style
	Title lipgloss.Style
}

func NewDefaultTheme() Theme {
	return Theme{
		Pass: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#00FF00")),
		Fail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF0000")),
		Neutral: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")),

		Cell: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			Width(16),
		Label: lipgloss.NewStyle().
			Bold(true),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#61AFEF")).
			Padding(0, 1),
	}
}
