package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/mithaq/internal/pomodoro"
	"github.com/sadopc/mithaq/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewPomodoro
	viewScores
	viewSettings
)

var viewNames = []string{"Tasks", "Pomodoro", "Scores", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// engineEventMsg carries a timer event from the engine goroutine into the
// update loop.
type engineEventMsg struct {
	event pomodoro.Event
}

type rolloverMsg struct {
	score store.WeeklyScore
}

// scheduledRolloverMsg is a rollover performed by the cron trigger rather
// than a view switch.
type scheduledRolloverMsg rolloverMsg

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatClock renders seconds as MM:SS; minutes are not capped at 59.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

var dayLabels = map[store.Day]string{
	store.Saturday:  "Sat",
	store.Sunday:    "Sun",
	store.Monday:    "Mon",
	store.Tuesday:   "Tue",
	store.Wednesday: "Wed",
	store.Thursday:  "Thu",
	store.Friday:    "Fri",
}

var intervalLabels = map[pomodoro.Interval]string{
	pomodoro.Work:       "WORK",
	pomodoro.ShortBreak: "SHORT BREAK",
	pomodoro.LongBreak:  "LONG BREAK",
}
