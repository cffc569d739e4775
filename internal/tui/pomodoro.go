package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/mithaq/internal/pomodoro"
)

type pomodoroModel struct {
	engine *pomodoro.Engine
	width  int
	height int

	snap pomodoro.Snapshot
	bar  progress.Model
}

func newPomodoroModel(e *pomodoro.Engine) pomodoroModel {
	return pomodoroModel{
		engine: e,
		snap:   e.Snapshot(),
		bar:    progress.New(progress.WithSolidFill(string(colorPrimary)), progress.WithoutPercentage()),
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(10, w-20)
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg, engineEventMsg:
		p.snap = p.engine.Snapshot()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Pause):
			p.engine.Toggle()
		case key.Matches(msg, keys.Reset):
			p.engine.Reset()
		case key.Matches(msg, keys.Skip):
			p.engine.Skip()
		case key.Matches(msg, keys.Work):
			p.engine.ChangeType(pomodoro.Work)
		case key.Matches(msg, keys.ShortBreak):
			p.engine.ChangeType(pomodoro.ShortBreak)
		case key.Matches(msg, keys.LongBreak):
			p.engine.ChangeType(pomodoro.LongBreak)
		default:
			return p, nil
		}
		p.snap = p.engine.Snapshot()
	}
	return p, nil
}

func (p pomodoroModel) intervalStyle() lipgloss.Style {
	return intervalStyles[p.snap.Interval]
}

// elapsedFraction is how much of the current interval has run.
func (p pomodoroModel) elapsedFraction() float64 {
	total := p.snap.Interval.Seconds(p.snap.Settings)
	if total <= 0 {
		return 0
	}
	return float64(total-p.snap.RemainingSeconds) / float64(total)
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	style := p.intervalStyle().Bold(true)

	title := titleStyle.Render("Pomodoro Timer")
	clock := style.Width(max(10, w-6)).Align(lipgloss.Center).Render(formatClock(p.snap.RemainingSeconds))

	label := style.Render(intervalLabels[p.snap.Interval])
	if !p.snap.Running {
		label += warningStyle.Render("  (paused)")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		clock,
		label,
		"",
		p.bar.ViewAs(p.elapsedFraction()),
		"",
		p.renderCycle(),
		mutedStyle.Render(fmt.Sprintf("This week: %d pomodoros", p.snap.WeeklyCount)),
	)

	controls := mutedStyle.Render("s/space: start/pause  r: reset  f: skip  w/b/B: work/short/long")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderCycle shows progress towards the next long break.
func (p pomodoroModel) renderCycle() string {
	l := p.snap.Settings.LongBreakInterval
	if l < 1 {
		l = 1
	}
	done := p.snap.CompletedCount % l
	var parts []string
	for i := 0; i < l; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && p.snap.Interval == pomodoro.Work && p.snap.Running:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	counter := mutedStyle.Render(fmt.Sprintf("  %d completed", p.snap.CompletedCount))
	return strings.Join(parts, " ") + counter
}
