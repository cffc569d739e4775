package pomodoro

import "github.com/sadopc/mithaq/internal/store"

// Interval is the kind of countdown the timer represents.
type Interval int

const (
	Work Interval = iota
	ShortBreak
	LongBreak
)

var intervalNames = map[Interval]string{
	Work:       "work",
	ShortBreak: "shortBreak",
	LongBreak:  "longBreak",
}

func (i Interval) String() string {
	if s, ok := intervalNames[i]; ok {
		return s
	}
	return "unknown"
}

// ParseInterval accepts the names produced by String.
func ParseInterval(s string) (Interval, bool) {
	for k, v := range intervalNames {
		if v == s {
			return k, true
		}
	}
	return Work, false
}

func (i Interval) IsBreak() bool { return i == ShortBreak || i == LongBreak }

// Seconds returns the full length of the interval under settings.
func (i Interval) Seconds(s store.PomodoroSettings) int {
	switch i {
	case ShortBreak:
		return s.ShortBreakDuration * 60
	case LongBreak:
		return s.LongBreakDuration * 60
	default:
		return s.WorkDuration * 60
	}
}

// State is the timer's position in the Interval × Running machine.
type State struct {
	Interval Interval
	Running  bool
}

// Snapshot is a point-in-time copy of everything a view needs.
type Snapshot struct {
	State
	RemainingSeconds int
	CompletedCount   int
	WeeklyCount      int
	Settings         store.PomodoroSettings
}

// EventKind distinguishes the notifications the engine publishes.
type EventKind int

const (
	EventCompleted EventKind = iota
	EventAutoStarted
	EventSettingsUpdated
)

type Event struct {
	Kind     EventKind
	Finished Interval // interval that just ran out, for EventCompleted
	Next     Interval
	Message  string
}

// nextAfterCompletion applies the completion-time rule: after the n-th
// finished work interval a long break follows when n is a multiple of the
// long-break interval.
func nextAfterCompletion(completed, longBreakInterval int) Interval {
	if completed%longBreakInterval == 0 {
		return LongBreak
	}
	return ShortBreak
}

// nextAfterSkip applies the skip-time rule, which looks at the count before
// it would be incremented and so uses a different offset.
func nextAfterSkip(completed, longBreakInterval int) Interval {
	if completed%longBreakInterval == longBreakInterval-1 {
		return LongBreak
	}
	return ShortBreak
}
