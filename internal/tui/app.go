package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/mithaq/internal/app"
	"github.com/sadopc/mithaq/internal/export"
	"github.com/sadopc/mithaq/internal/pomodoro"
	"github.com/sadopc/mithaq/internal/store"
)

var exportFormats = []string{"Scores (CSV)", "Tasks (CSV)", "Everything (JSON)"}

// App is the root Bubble Tea model.
type App struct {
	core   *app.App
	events chan tea.Msg
	done   chan struct{}
	stop   *sync.Once
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	tasks    tasksModel
	pomodoro pomodoroModel
	scores   scoresModel
	settings settingsModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(core *app.App) App {
	h := help.New()
	h.ShowAll = false

	// Engine and cron callbacks run on their own goroutines; hand them to
	// the update loop through a channel and drop them if the UI falls
	// behind or has shut down.
	events := make(chan tea.Msg, 16)
	done := make(chan struct{})
	post := func(msg tea.Msg) {
		select {
		case <-done:
			return
		default:
		}
		select {
		case events <- msg:
		default:
		}
	}
	core.Engine.Subscribe(func(ev pomodoro.Event) { post(engineEventMsg{event: ev}) })
	core.Scheduler.OnRollover(func(score store.WeeklyScore) { post(scheduledRolloverMsg{score: score}) })

	today := store.DayOf(core.Clock.Now().Weekday())
	return App{
		core:       core,
		events:     events,
		done:       done,
		stop:       &sync.Once{},
		activeView: viewTasks,
		tasks:      newTasksModel(core.Tasks, today),
		pomodoro:   newPomodoroModel(core.Engine),
		scores:     newScoresModel(core.Store),
		settings:   newSettingsModel(core.Engine),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.tasks.refresh(),
		a.scores.refresh(),
		waitForEvent(a.events, a.done),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks for the next background message until Close.
func waitForEvent(ch <-chan tea.Msg, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-done:
			return nil
		}
	}
}

// Close releases the pending waitForEvent and stops forwarding background
// events. Call it once the program has exited.
func (a App) Close() {
	a.stop.Do(func() { close(a.done) })
}

// checkWeek runs the rollover check. It is issued on every view switch.
func (a App) checkWeek() tea.Cmd {
	d := a.core.Detector
	return func() tea.Msg {
		if score, ok := d.CheckWeekEnd(); ok {
			return rolloverMsg{score: score}
		}
		return nil
	}
}

func (a App) switchTo(v viewState) (App, tea.Cmd) {
	a.activeView = v
	return a, tea.Batch(a.checkWeek(), a.refreshCurrentView())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.tasks.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.scores.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.scores.buildChart()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewTasks)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewPomodoro)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewScores)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case engineEventMsg:
		cmds = append(cmds, waitForEvent(a.events, a.done))
		a.pomodoro, _ = a.pomodoro.update(msg)
		switch msg.event.Kind {
		case pomodoro.EventCompleted:
			a.status, a.isErr = msg.event.Message+" \a", false
		case pomodoro.EventSettingsUpdated:
			cmds = append(cmds, a.settings.refresh())
		}
		return a, tea.Batch(cmds...)

	case scheduledRolloverMsg:
		m, cmd := a.Update(rolloverMsg(msg))
		return m, tea.Batch(cmd, waitForEvent(a.events, a.done))

	case rolloverMsg:
		s := msg.score
		a.status, a.isErr = fmt.Sprintf("Week %s closed: %d%% done, %d pomodoros", s.ID, s.CompletionPercentage, s.PomodoroCount), false
		a.pomodoro, _ = a.pomodoro.update(engineEventMsg{})
		return a, tea.Batch(a.tasks.refresh(), a.scores.refresh())

	case statusMsg:
		a.status, a.isErr = msg.text, msg.isError
		return a, nil

	case exportDoneMsg:
		a.status, a.isErr = "Exported to "+msg.path, false
		a.exportPicking = false
		return a, nil

	case tasksDataMsg:
		a.tasks, _ = a.tasks.update(msg)
		return a, nil

	case scoresDataMsg:
		a.scores, _ = a.scores.update(msg)
		return a, nil

	case settingsDataMsg:
		a.settings, _ = a.settings.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewScores:
		a.scores, cmd = a.scores.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTasks:
		return a.tasks.refresh()
	case viewScores:
		return a.scores.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTasks:
		content = a.tasks.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewScores:
		content = a.scores.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("mithaq")
	week := mutedStyle.Render(" week " + a.core.Detector.Current().String())
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(week)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, week, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	snap := a.pomodoro.snap
	if snap.Running {
		timerInfo = successStyle.Render(" ● " + formatClock(snap.RemainingSeconds) + " " + intervalLabels[snap.Interval])
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		home, _ := os.UserHomeDir()
		return a, a.doExport(a.exportCursor, home)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int, dir string) tea.Cmd {
	core := a.core
	return func() tea.Msg {
		dateStr := core.Clock.Now().Format("2006-01-02")

		var path string
		var err error
		switch format {
		case 0:
			path = filepath.Join(dir, fmt.Sprintf("mithaq-scores-%s.csv", dateStr))
			err = export.ScoresToCSV(core.Store.WeeklyScores(), path)
		case 1:
			path = filepath.Join(dir, fmt.Sprintf("mithaq-tasks-%s.csv", dateStr))
			err = export.TasksToCSV(core.Tasks.All(), path)
		default:
			path = filepath.Join(dir, fmt.Sprintf("mithaq-export-%s.json", dateStr))
			err = export.ToJSON(core.Detector.Current().String(), core.Tasks.All(), core.Store.WeeklyScores(), path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
