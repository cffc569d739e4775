package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/mithaq/internal/pomodoro"
	"github.com/sadopc/mithaq/internal/store"
)

type settingsModel struct {
	engine *pomodoro.Engine
	width  int
	height int

	current    store.PomodoroSettings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	work       *string
	shortBreak *string
	longBreak  *string
	interval   *string
	autoBreaks *bool
	autoWork   *bool
}

func newSettingsModel(e *pomodoro.Engine) settingsModel {
	w, sb, lb, iv := "", "", "", ""
	ab, aw := false, false
	return settingsModel{
		engine:     e,
		current:    e.Settings(),
		work:       &w,
		shortBreak: &sb,
		longBreak:  &lb,
		interval:   &iv,
		autoBreaks: &ab,
		autoWork:   &aw,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings store.PomodoroSettings
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{settings: s.engine.Settings()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.current = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return errors.New("enter a whole number of at least 1")
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.work = strconv.Itoa(s.current.WorkDuration)
	*s.shortBreak = strconv.Itoa(s.current.ShortBreakDuration)
	*s.longBreak = strconv.Itoa(s.current.LongBreakDuration)
	*s.interval = strconv.Itoa(s.current.LongBreakInterval)
	*s.autoBreaks = s.current.AutoStartBreaks
	*s.autoWork = s.current.AutoStartPomodoros

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Value(s.work).Validate(positiveInt),
			huh.NewInput().Title("Short break (min)").Value(s.shortBreak).Validate(positiveInt),
			huh.NewInput().Title("Long break (min)").Value(s.longBreak).Validate(positiveInt),
			huh.NewInput().Title("Pomodoros before long break").Value(s.interval).Validate(positiveInt),
		).Title("Durations"),
		huh.NewGroup(
			huh.NewConfirm().Title("Start breaks automatically").Value(s.autoBreaks),
			huh.NewConfirm().Title("Start pomodoros automatically").Value(s.autoWork),
		).Title("Auto start"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s.save()
	}

	return s, cmd
}

func (s settingsModel) patch() pomodoro.Patch {
	atoi := func(v string) *int {
		n, _ := strconv.Atoi(v)
		return &n
	}
	ab, aw := *s.autoBreaks, *s.autoWork
	return pomodoro.Patch{
		WorkDuration:       atoi(*s.work),
		ShortBreakDuration: atoi(*s.shortBreak),
		LongBreakDuration:  atoi(*s.longBreak),
		LongBreakInterval:  atoi(*s.interval),
		AutoStartBreaks:    &ab,
		AutoStartPomodoros: &aw,
	}
}

func (s settingsModel) save() (settingsModel, tea.Cmd) {
	updated, err := s.engine.UpdateSettings(s.patch())
	if err != nil {
		return s, statusCmd(fmt.Sprintf("Settings not saved: %v", err), true)
	}
	s.current = updated
	return s, statusCmd("Settings saved", false)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{titleStyle.Render("Settings"), ""}
	for _, item := range settingRows(s.current) {
		label := lipgloss.NewStyle().Width(32).Render(item[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(item[1])))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRows(c store.PomodoroSettings) [][2]string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	return [][2]string{
		{"Work", fmt.Sprintf("%d min", c.WorkDuration)},
		{"Short break", fmt.Sprintf("%d min", c.ShortBreakDuration)},
		{"Long break", fmt.Sprintf("%d min", c.LongBreakDuration)},
		{"Pomodoros before long break", strconv.Itoa(c.LongBreakInterval)},
		{"Auto-start breaks", onOff(c.AutoStartBreaks)},
		{"Auto-start pomodoros", onOff(c.AutoStartPomodoros)},
	}
}
