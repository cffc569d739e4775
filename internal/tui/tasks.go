package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/mithaq/internal/store"
	"github.com/sadopc/mithaq/internal/tasks"
)

type tasksModel struct {
	svc    *tasks.Service
	width  int
	height int

	day      int // index into store.Days
	cursor   int
	items    []store.Task // tasks of the selected day, collection order
	progress map[store.Day]int
	overall  int
	selected map[string]bool

	bar progress.Model

	formActive bool
	form       *huh.Form
	formType   string // "add", "edit", "copy"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle    *string
	formDay      *store.Day
	formPriority *store.Priority
	formTarget   *store.Day
}

func newTasksModel(svc *tasks.Service, today store.Day) tasksModel {
	title, day, prio, target := "", today, store.PriorityMedium, today
	m := tasksModel{
		svc:          svc,
		selected:     map[string]bool{},
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		formTitle:    &title,
		formDay:      &day,
		formPriority: &prio,
		formTarget:   &target,
	}
	for i, d := range store.Days {
		if d == today {
			m.day = i
		}
	}
	m.load()
	return m
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.bar.Width = max(10, w-30)
}

func (t tasksModel) currentDay() store.Day { return store.Days[t.day] }

type tasksDataMsg struct{}

func (t tasksModel) refresh() tea.Cmd {
	return func() tea.Msg { return tasksDataMsg{} }
}

// load pulls the selected day and every day's progress from the service.
func (t *tasksModel) load() {
	t.items = t.svc.ByDay(t.currentDay())
	t.progress = make(map[store.Day]int, len(store.Days))
	for _, d := range store.Days {
		t.progress[d] = t.svc.DayProgress(d)
	}
	t.overall = t.svc.OverallProgress()
	if t.cursor >= len(t.items) {
		t.cursor = max(0, len(t.items)-1)
	}
	for id := range t.selected {
		if _, ok := t.svc.Get(id); !ok {
			delete(t.selected, id)
		}
	}
}

func (t tasksModel) current() (store.Task, bool) {
	if t.cursor < 0 || t.cursor >= len(t.items) {
		return store.Task{}, false
	}
	return t.items[t.cursor], true
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.load()
		return t, nil

	case tea.KeyMsg:
		return t.updateKeys(msg)
	}
	return t, nil
}

func (t tasksModel) updateKeys(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		t.day = (t.day + len(store.Days) - 1) % len(store.Days)
		t.cursor = 0
		t.load()
	case key.Matches(msg, keys.Right):
		t.day = (t.day + 1) % len(store.Days)
		t.cursor = 0
		t.load()
	case key.Matches(msg, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(msg, keys.Down):
		if t.cursor < len(t.items)-1 {
			t.cursor++
		}
	case key.Matches(msg, keys.New):
		return t.showAddForm()
	case key.Matches(msg, keys.Edit):
		if _, ok := t.current(); ok {
			return t.showEditForm()
		}
	case key.Matches(msg, keys.Check):
		if cur, ok := t.current(); ok {
			task, err := t.svc.Toggle(cur.ID)
			t.load()
			if err != nil {
				return t, statusCmd(err.Error(), true)
			}
			if task.Completed {
				return t, statusCmd("Task completed", false)
			}
			return t, statusCmd("Task marked as not done", false)
		}
	case key.Matches(msg, keys.Delete):
		if cur, ok := t.current(); ok {
			err := t.svc.Delete(cur.ID)
			t.load()
			if err != nil {
				return t, statusCmd(err.Error(), true)
			}
			return t, statusCmd("Task deleted", false)
		}
	case key.Matches(msg, keys.Select):
		if cur, ok := t.current(); ok {
			if t.selected[cur.ID] {
				delete(t.selected, cur.ID)
			} else {
				t.selected[cur.ID] = true
			}
		}
	case key.Matches(msg, keys.Copy):
		if len(t.selected) > 0 || len(t.items) > 0 {
			return t.showCopyForm()
		}
	case key.Matches(msg, keys.Sort):
		t.svc.Sort()
		t.load()
		return t, statusCmd("Tasks sorted by priority", false)
	case key.Matches(msg, keys.UncheckAll):
		t.svc.UncheckAll()
		t.load()
		return t, statusCmd("All tasks unchecked", false)
	}
	return t, nil
}

// copyIDs returns the selection, or the task under the cursor when nothing
// is selected.
func (t tasksModel) copyIDs() []string {
	if len(t.selected) == 0 {
		if cur, ok := t.current(); ok {
			return []string{cur.ID}
		}
		return nil
	}
	ids := make([]string, 0, len(t.selected))
	for id := range t.selected {
		ids = append(ids, id)
	}
	return ids
}

func dayOptions() []huh.Option[store.Day] {
	opts := make([]huh.Option[store.Day], len(store.Days))
	for i, d := range store.Days {
		opts[i] = huh.NewOption(strings.ToUpper(string(d[:1]))+string(d[1:]), d)
	}
	return opts
}

func priorityOptions() []huh.Option[store.Priority] {
	return []huh.Option[store.Priority]{
		huh.NewOption("High", store.PriorityHigh),
		huh.NewOption("Medium", store.PriorityMedium),
		huh.NewOption("Low", store.PriorityLow),
	}
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func (t tasksModel) taskForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(t.formTitle).Validate(validateTitle),
			huh.NewSelect[store.Day]().Title("Day").Options(dayOptions()...).Value(t.formDay),
			huh.NewSelect[store.Priority]().Title("Priority").Options(priorityOptions()...).Value(t.formPriority),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (t tasksModel) showAddForm() (tasksModel, tea.Cmd) {
	*t.formTitle = ""
	*t.formDay = t.currentDay()
	*t.formPriority = store.PriorityMedium
	t.formType = "add"
	t.form = t.taskForm()
	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) showEditForm() (tasksModel, tea.Cmd) {
	cur, _ := t.current()
	*t.formTitle = cur.Title
	*t.formDay = cur.Day
	*t.formPriority = cur.Priority
	t.formType = "edit"
	t.editingID = cur.ID
	t.form = t.taskForm()
	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) showCopyForm() (tasksModel, tea.Cmd) {
	*t.formTarget = t.currentDay()
	t.formType = "copy"
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[store.Day]().
				Title(fmt.Sprintf("Copy %d task(s) to", len(t.copyIDs()))).
				Options(dayOptions()...).
				Value(t.formTarget),
		),
	).WithShowHelp(true).WithShowErrors(true)
	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		t.form = nil
		return t.submitForm()
	}
	return t, cmd
}

func (t tasksModel) submitForm() (tasksModel, tea.Cmd) {
	t.formActive = false
	t.form = nil
	var status tea.Cmd
	switch t.formType {
	case "add":
		if _, err := t.svc.Add(*t.formTitle, *t.formDay, *t.formPriority); err != nil {
			status = statusCmd(err.Error(), true)
		} else {
			status = statusCmd("Task added", false)
		}
	case "edit":
		_, err := t.svc.Edit(t.editingID, tasks.Patch{
			Title:    t.formTitle,
			Day:      t.formDay,
			Priority: t.formPriority,
		})
		if err != nil {
			status = statusCmd(err.Error(), true)
		} else {
			status = statusCmd("Task updated", false)
		}
	case "copy":
		copies, err := t.svc.Copy(t.copyIDs(), *t.formTarget)
		if err != nil {
			status = statusCmd(err.Error(), true)
		} else {
			t.selected = map[string]bool{}
			status = statusCmd(fmt.Sprintf("Copied %d task(s) to %s", len(copies), *t.formTarget), false)
		}
	}
	t.load()
	return t, status
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func (t tasksModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := "New Task"
		switch t.formType {
		case "edit":
			title = "Edit Task"
		case "copy":
			title = "Copy Tasks"
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", t.form.View()),
		)
	}

	var rows []string
	rows = append(rows, t.renderDayTabs())
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("%s %s %s",
		titleStyle.Render(fmt.Sprintf("%-10s", dayLabels[t.currentDay()])),
		t.bar.ViewAs(float64(t.progress[t.currentDay()])/100),
		highlightStyle.Render(fmt.Sprintf("%3d%%", t.progress[t.currentDay()])),
	))
	rows = append(rows, "")

	if len(t.items) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks for this day. Press n to add one."))
	}
	for i, task := range t.items {
		rows = append(rows, t.renderTask(i, task))
	}

	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("%s %s %s",
		subtitleStyle.Render(fmt.Sprintf("%-10s", "Week")),
		t.bar.ViewAs(float64(t.overall)/100),
		highlightStyle.Render(fmt.Sprintf("%3d%%", t.overall)),
	))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  x: done  d: delete  v: select  c: copy  o: sort  U: uncheck all"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t tasksModel) renderDayTabs() string {
	var tabs []string
	for i, d := range store.Days {
		label := fmt.Sprintf("%s %d%%", dayLabels[d], t.progress[d])
		if i == t.day {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (t tasksModel) renderTask(i int, task store.Task) string {
	cursor := "  "
	style := normalItemStyle
	if i == t.cursor {
		cursor = "> "
		style = selectedItemStyle
	}
	check := "[ ]"
	if task.Completed {
		check = successStyle.Render("[x]")
		style = doneItemStyle
	}
	mark := " "
	if t.selected[task.ID] {
		mark = highlightStyle.Render("•")
	}
	prio := priorityStyles[task.Priority].Render(fmt.Sprintf("%-6s", task.Priority))
	return fmt.Sprintf("%s%s%s %s %s", cursor, mark, check, prio, style.Render(task.Title))
}
