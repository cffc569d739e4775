package tasks

import "github.com/sadopc/mithaq/internal/store"

// EffortWeights maps each priority to its fixed weight.
var EffortWeights = map[store.Priority]int{
	store.PriorityLow:    10,
	store.PriorityMedium: 30,
	store.PriorityHigh:   60,
}

// ProgressForDay returns the weighted completion percentage of the tasks
// scheduled on day. A day with no tasks counts as fully done.
func ProgressForDay(tasks []store.Task, day store.Day) int {
	var done, total int
	for _, t := range tasks {
		if t.Day != day {
			continue
		}
		w := EffortWeights[t.Priority]
		total += w
		if t.Completed {
			done += w
		}
	}
	return percent(done, total)
}

// OverallProgress is ProgressForDay across every day.
func OverallProgress(tasks []store.Task) int {
	var done, total int
	for _, t := range tasks {
		w := EffortWeights[t.Priority]
		total += w
		if t.Completed {
			done += w
		}
	}
	return percent(done, total)
}

// percent rounds 100*done/total half up using integer arithmetic.
func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return (200*done + total) / (2 * total)
}
