package tui

import "github.com/charmbracelet/lipgloss"

var (
	brand       = lipgloss.Color("#F57C00")
	muted       = lipgloss.Color("#8A8F98")
	destructive = lipgloss.Color("#E53935")
	success     = lipgloss.Color("#43A047")
	border      = lipgloss.Color("#3C4452")
)

// Styles holds the lipgloss styles of the storefront UI.
type Styles struct {
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Search   lipgloss.Style
	Overlay  lipgloss.Style
	Heading  lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Info     lipgloss.Style
	Total    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(brand),
		Badge:    lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(brand).Foreground(lipgloss.Color("#FFFFFF")),
		Search:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border).Padding(0, 1),
		Overlay:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(brand).Padding(1, 2),
		Heading:  lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(brand),
		Item:     lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(destructive),
		Success:  lipgloss.NewStyle().Foreground(success),
		Info:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		Total:    lipgloss.NewStyle().Bold(true).MarginTop(1),
	}
}
