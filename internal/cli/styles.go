package cli

import "github.com/charmbracelet/lipgloss"

var (
	headStyle  = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52B788"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D62828"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B705C"))
)
