package tasks

import (
	"sort"
	"strings"

	"github.com/sadopc/mithaq/internal/store"
)

var priorityRank = map[store.Priority]int{
	store.PriorityHigh:   1,
	store.PriorityMedium: 2,
	store.PriorityLow:    3,
}

// SortTasks orders tasks in place: high before medium before low, then
// incomplete before complete, then by title. The sort is stable.
func SortTasks(tasks []store.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := priorityRank[a.Priority], priorityRank[b.Priority]; ra != rb {
			return ra < rb
		}
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return strings.Compare(a.Title, b.Title) < 0
	})
}
