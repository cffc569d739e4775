package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/mithaq/internal/store"
)

// weeksShown is how many weeks fit on one page of the chart.
const weeksShown = 8

type ScoreSource interface {
	WeeklyScores() []store.WeeklyScore
}

type scoresModel struct {
	source ScoreSource
	width  int
	height int

	scores []store.WeeklyScore
	offset int // pages back from the most recent week

	chart barchart.Model
}

func newScoresModel(s ScoreSource) scoresModel {
	return scoresModel{
		source: s,
		chart:  barchart.New(60, 12),
	}
}

func (r *scoresModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type scoresDataMsg struct {
	scores []store.WeeklyScore
}

func (r scoresModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return scoresDataMsg{scores: r.source.WeeklyScores()}
	}
}

// page returns the scores visible at the current offset, oldest first.
func (r scoresModel) page() []store.WeeklyScore {
	end := len(r.scores) - r.offset*weeksShown
	if end <= 0 {
		return nil
	}
	start := max(0, end-weeksShown)
	return r.scores[start:end]
}

func (r scoresModel) update(msg tea.Msg) (scoresModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scoresDataMsg:
		r.scores = msg.scores
		r.offset = 0
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if (r.offset+1)*weeksShown < len(r.scores) {
				r.offset++
				r.buildChart()
			}
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
				r.buildChart()
			}
		}
	}
	return r, nil
}

func (r *scoresModel) buildChart() {
	chartWidth := max(20, r.width-8)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, s := range r.page() {
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("W%d", s.WeekNumber),
			Values: []barchart.BarValue{{
				Name:  s.ID,
				Value: float64(s.CompletionPercentage),
				Style: lipgloss.NewStyle().Foreground(scoreColor(s.CompletionPercentage)),
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r scoresModel) view() string {
	w := r.width - 4
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Weekly Scores"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d weeks recorded", len(r.scores))),
	)

	if len(r.scores) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No finished weeks yet. Scores are saved every Saturday."),
		))
	}

	nav := mutedStyle.Render("  ←/→: older/newer weeks")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderTable(w), "", nav,
		),
	)
}

func (r scoresModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-10s %-12s %12s %10s", "Week", "Ended", "Completion", "Pomodoros")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 48))))

	page := r.page()
	for i := len(page) - 1; i >= 0; i-- {
		s := page[i]
		pct := lipgloss.NewStyle().Foreground(scoreColor(s.CompletionPercentage)).
			Render(fmt.Sprintf("%11d%%", s.CompletionPercentage))
		rows = append(rows, fmt.Sprintf("  %-10s %-12s %s %10d",
			s.ID, s.EndDate.Local().Format("Jan 02 2006"), pct, s.PomodoroCount,
		))
	}
	return strings.Join(rows, "\n")
}
