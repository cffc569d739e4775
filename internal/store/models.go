package store

import (
	"strings"
	"time"
)

type Day string

const (
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
)

// Days lists the week in display order, starting on the rollover day.
var Days = []Day{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

func (d Day) Valid() bool {
	for _, v := range Days {
		if v == d {
			return true
		}
	}
	return false
}

// ParseDay accepts a full day name or its three-letter prefix, in any case.
func ParseDay(s string) (Day, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return "", false
	}
	for _, d := range Days {
		if strings.HasPrefix(string(d), s) {
			return d, true
		}
	}
	return "", false
}

// DayOf maps a time.Weekday onto the task partition key.
func DayOf(w time.Weekday) Day {
	switch w {
	case time.Saturday:
		return Saturday
	case time.Sunday:
		return Sunday
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	default:
		return Friday
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Day       Day      `json:"day"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}

// PomodoroSettings durations are whole minutes.
type PomodoroSettings struct {
	WorkDuration       int  `json:"workDuration"`
	ShortBreakDuration int  `json:"shortBreakDuration"`
	LongBreakDuration  int  `json:"longBreakDuration"`
	LongBreakInterval  int  `json:"longBreakInterval"`
	AutoStartBreaks    bool `json:"autoStartBreaks"`
	AutoStartPomodoros bool `json:"autoStartPomodoros"`
}

func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		WorkDuration:       25,
		ShortBreakDuration: 5,
		LongBreakDuration:  15,
		LongBreakInterval:  4,
		AutoStartBreaks:    true,
		AutoStartPomodoros: false,
	}
}

// Valid reports whether every duration and the interval are at least one.
func (s PomodoroSettings) Valid() bool {
	return s.WorkDuration >= 1 && s.ShortBreakDuration >= 1 &&
		s.LongBreakDuration >= 1 && s.LongBreakInterval >= 1
}

type WeeklyScore struct {
	ID                   string    `json:"id"`
	WeekNumber           int       `json:"weekNumber"`
	Year                 int       `json:"year"`
	CompletionPercentage int       `json:"completionPercentage"`
	PomodoroCount        int       `json:"pomodoroCount"`
	EndDate              time.Time `json:"endDate"`
}
