package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/mithaq/internal/pomodoro"
	"github.com/sadopc/mithaq/internal/store"
)

// Palette: teal for focus, warm tones for urgency.
var (
	colorPrimary = lipgloss.Color("#2A9D8F")
	colorLeaf    = lipgloss.Color("#8AB17D")
	colorCoral   = lipgloss.Color("#E76F51")
	colorSand    = lipgloss.Color("#E9C46A")
	colorMuted   = lipgloss.Color("#6B705C")
	colorSuccess = lipgloss.Color("#52B788")
	colorError   = lipgloss.Color("#D62828")
	colorFg      = lipgloss.Color("#E9EDC9")
	colorSubtle  = lipgloss.Color("#3D405B")
	colorSky     = lipgloss.Color("#90E0EF")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	activeTabStyle = fg(colorPrimary).Bold(true).Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)

	titleStyle     = fg(colorFg).Bold(true)
	subtitleStyle  = fg(colorMuted)
	mutedStyle     = fg(colorMuted)
	accentStyle    = fg(colorCoral)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorSand)
	errorStyle     = fg(colorError)
	highlightStyle = fg(colorSky)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorFg)
	doneItemStyle     = mutedStyle.Strikethrough(true)
)

var priorityStyles = map[store.Priority]lipgloss.Style{
	store.PriorityHigh:   fg(colorCoral),
	store.PriorityMedium: fg(colorSand),
	store.PriorityLow:    fg(colorLeaf),
}

var intervalStyles = map[pomodoro.Interval]lipgloss.Style{
	pomodoro.Work:       accentStyle,
	pomodoro.ShortBreak: successStyle,
	pomodoro.LongBreak:  highlightStyle,
}

// scoreColor grades a completion percentage: 80 and up is good, under 50
// is poor.
func scoreColor(pct int) lipgloss.Color {
	switch {
	case pct >= 80:
		return colorSuccess
	case pct >= 50:
		return colorSand
	}
	return colorError
}
