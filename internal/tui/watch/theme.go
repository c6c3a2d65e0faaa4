// Package watch implements the fixture operator's dashboard: a terminal view
// of a running jig-client, polled over its status API.
package watch

import "github.com/charmbracelet/lipgloss"

// Theme centralizes all styling for the watch TUI.
type Theme struct {
	StatusPass lipgloss.Style
	StatusFail lipgloss.Style
	StatusNone lipgloss.Style

	Border    lipgloss.Style
	Title     lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style

	BlinkLive  lipgloss.Style
	BlinkStale lipgloss.Style
}

func NewDefaultTheme() Theme {
	purple := lipgloss.Color("#874BFD")

	return Theme{
		StatusPass: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		StatusFail: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		StatusNone: lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),

		BlinkLive:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")),
		BlinkStale: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
	}
}
