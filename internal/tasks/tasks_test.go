package tasks

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory(zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	svc := NewService(st, nil)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
	return svc, st
}

func task(title string, day store.Day, p store.Priority, done bool) store.Task {
	return store.Task{ID: title + string(day), Title: title, Day: day, Priority: p, Completed: done}
}

// ============================================================
// Progress
// ============================================================

func TestProgressEmpty(t *testing.T) {
	if got := OverallProgress(nil); got != 100 {
		t.Fatalf("OverallProgress(nil) = %d, want 100", got)
	}
	if got := ProgressForDay(nil, store.Monday); got != 100 {
		t.Fatalf("ProgressForDay(nil) = %d, want 100", got)
	}
	ts := []store.Task{task("a", store.Sunday, store.PriorityHigh, false)}
	if got := ProgressForDay(ts, store.Monday); got != 100 {
		t.Fatalf("day without tasks = %d, want 100", got)
	}
}

func TestProgressWeighted(t *testing.T) {
	tests := []struct {
		name  string
		tasks []store.Task
		want  int
	}{
		{"nothing done", []store.Task{
			task("a", store.Monday, store.PriorityHigh, false),
		}, 0},
		{"high of high+low", []store.Task{
			task("a", store.Monday, store.PriorityHigh, true),
			task("b", store.Monday, store.PriorityLow, false),
		}, 86}, // 60/70 = 85.71
		{"low of all three", []store.Task{
			task("a", store.Monday, store.PriorityLow, true),
			task("b", store.Monday, store.PriorityMedium, false),
			task("c", store.Monday, store.PriorityHigh, false),
		}, 10}, // 10/100
		{"medium of medium+low", []store.Task{
			task("a", store.Monday, store.PriorityMedium, true),
			task("b", store.Monday, store.PriorityLow, false),
		}, 75}, // 30/40
		{"half rounds up", []store.Task{
			task("a", store.Monday, store.PriorityLow, true),
			task("b", store.Monday, store.PriorityLow, false),
			task("c", store.Monday, store.PriorityLow, false),
			task("d", store.Monday, store.PriorityLow, false),
			task("e", store.Monday, store.PriorityLow, false),
			task("f", store.Monday, store.PriorityLow, false),
			task("g", store.Monday, store.PriorityLow, false),
			task("h", store.Monday, store.PriorityLow, false),
		}, 13}, // 12.5
		{"all done", []store.Task{
			task("a", store.Monday, store.PriorityHigh, true),
			task("b", store.Monday, store.PriorityLow, true),
		}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallProgress(tt.tasks); got != tt.want {
				t.Fatalf("OverallProgress = %d, want %d", got, tt.want)
			}
			if got := ProgressForDay(tt.tasks, store.Monday); got != tt.want {
				t.Fatalf("ProgressForDay = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProgressFormulaAcrossDays(t *testing.T) {
	ts := []store.Task{
		task("a", store.Saturday, store.PriorityHigh, true),
		task("b", store.Sunday, store.PriorityMedium, false),
		task("c", store.Sunday, store.PriorityLow, true),
		task("d", store.Friday, store.PriorityMedium, true),
	}
	// (60 + 10 + 30) / (60 + 30 + 10 + 30) = 100/130 = 76.9
	if got := OverallProgress(ts); got != 77 {
		t.Fatalf("OverallProgress = %d, want 77", got)
	}
	if got := ProgressForDay(ts, store.Sunday); got != 25 {
		t.Fatalf("Sunday progress = %d, want 25", got)
	}
	if got := ProgressForDay(ts, store.Saturday); got != 100 {
		t.Fatalf("Saturday progress = %d, want 100", got)
	}
}

func TestCompletingDayReachesHundred(t *testing.T) {
	mixes := [][]store.Priority{
		{store.PriorityLow},
		{store.PriorityHigh, store.PriorityLow},
		{store.PriorityMedium, store.PriorityMedium, store.PriorityHigh, store.PriorityLow},
	}
	for i, mix := range mixes {
		var ts []store.Task
		for j, p := range mix {
			ts = append(ts, task(fmt.Sprint(j), store.Tuesday, p, true))
		}
		ts = append(ts, task("other", store.Wednesday, store.PriorityHigh, false))
		if got := ProgressForDay(ts, store.Tuesday); got != 100 {
			t.Fatalf("mix %d: progress = %d, want 100", i, got)
		}
	}
}

// ============================================================
// Sort
// ============================================================

func TestSortExample(t *testing.T) {
	ts := []store.Task{
		{ID: "1", Title: "B", Priority: store.PriorityHigh},
		{ID: "2", Title: "A", Priority: store.PriorityLow},
		{ID: "3", Title: "A", Priority: store.PriorityHigh, Completed: true},
	}
	SortTasks(ts)
	want := []string{"1", "3", "2"}
	for i, id := range want {
		if ts[i].ID != id {
			t.Fatalf("position %d = %s, want %s (%+v)", i, ts[i].ID, id, ts)
		}
	}
}

func TestSortStableAndOrdered(t *testing.T) {
	ts := []store.Task{
		{ID: "1", Title: "x", Priority: store.PriorityMedium},
		{ID: "2", Title: "x", Priority: store.PriorityMedium},
		{ID: "3", Title: "a", Priority: store.PriorityLow, Completed: true},
		{ID: "4", Title: "b", Priority: store.PriorityLow},
		{ID: "5", Title: "c", Priority: store.PriorityHigh},
	}
	SortTasks(ts)
	want := []string{"5", "1", "2", "4", "3"}
	for i, id := range want {
		if ts[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, ts[i].ID, id)
		}
	}
}

// ============================================================
// Service
// ============================================================

func TestAddTask(t *testing.T) {
	svc, st := newTestService(t)

	got, err := svc.Add("  Read Quran  ", store.Monday, store.PriorityHigh)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "t1" || got.Title != "Read Quran" || got.Completed {
		t.Fatalf("unexpected task: %+v", got)
	}
	if persisted := st.Tasks(); len(persisted) != 1 || persisted[0] != got {
		t.Fatalf("task not persisted: %+v", persisted)
	}
}

func TestAddValidation(t *testing.T) {
	svc, st := newTestService(t)

	tests := []struct {
		title    string
		day      store.Day
		priority store.Priority
		want     error
	}{
		{"   ", store.Monday, store.PriorityLow, ErrEmptyTitle},
		{"x", store.Day("someday"), store.PriorityLow, ErrInvalidDay},
		{"x", store.Monday, store.Priority("urgent"), ErrInvalidPriority},
	}
	for _, tt := range tests {
		if _, err := svc.Add(tt.title, tt.day, tt.priority); !errors.Is(err, tt.want) {
			t.Fatalf("Add(%q, %q, %q) err = %v, want %v", tt.title, tt.day, tt.priority, err, tt.want)
		}
	}
	if len(svc.All()) != 0 || len(st.Tasks()) != 0 {
		t.Fatal("rejected adds must not mutate state")
	}
}

func TestToggleTask(t *testing.T) {
	svc, st := newTestService(t)
	a, _ := svc.Add("a", store.Monday, store.PriorityLow)

	got, err := svc.Toggle(a.ID)
	if err != nil || !got.Completed {
		t.Fatalf("toggle on: %+v %v", got, err)
	}
	if !st.Tasks()[0].Completed {
		t.Fatal("toggle not persisted")
	}
	got, _ = svc.Toggle(a.ID)
	if got.Completed {
		t.Fatal("second toggle should uncheck")
	}
	if _, err := svc.Toggle("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	svc, st := newTestService(t)
	a, _ := svc.Add("a", store.Monday, store.PriorityLow)
	b, _ := svc.Add("b", store.Monday, store.PriorityLow)

	if err := svc.Delete(a.ID); err != nil {
		t.Fatal(err)
	}
	all := svc.All()
	if len(all) != 1 || all[0].ID != b.ID {
		t.Fatalf("unexpected tasks after delete: %+v", all)
	}
	if len(st.Tasks()) != 1 {
		t.Fatal("delete not persisted")
	}
	if err := svc.Delete(a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEditTask(t *testing.T) {
	svc, _ := newTestService(t)
	a, _ := svc.Add("a", store.Monday, store.PriorityLow)

	title := "renamed"
	day := store.Friday
	prio := store.PriorityHigh
	got, err := svc.Edit(a.ID, Patch{Title: &title, Day: &day, Priority: &prio})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "renamed" || got.Day != store.Friday || got.Priority != store.PriorityHigh {
		t.Fatalf("edit not applied: %+v", got)
	}

	empty := " "
	if _, err := svc.Edit(a.ID, Patch{Title: &empty}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if cur, _ := svc.Get(a.ID); cur.Title != "renamed" {
		t.Fatal("rejected edit mutated the task")
	}
}

func TestCopyTasks(t *testing.T) {
	svc, st := newTestService(t)
	a, _ := svc.Add("a", store.Monday, store.PriorityHigh)
	b, _ := svc.Add("b", store.Monday, store.PriorityLow)
	svc.Toggle(b.ID)

	copies, err := svc.Copy([]string{b.ID, a.ID, "missing"}, store.Thursday)
	if err != nil {
		t.Fatal(err)
	}
	if len(copies) != 2 {
		t.Fatalf("expected 2 copies, got %d", len(copies))
	}
	// Collection order, fresh ids, target day, flags kept.
	if copies[0].Title != "a" || copies[1].Title != "b" {
		t.Fatalf("copies out of order: %+v", copies)
	}
	if copies[0].ID == a.ID || copies[1].ID == b.ID {
		t.Fatal("copies must get new ids")
	}
	if copies[0].Day != store.Thursday || !copies[1].Completed {
		t.Fatalf("unexpected copy fields: %+v", copies)
	}
	if len(st.Tasks()) != 4 {
		t.Fatal("copies not persisted")
	}
	if _, err := svc.Copy([]string{a.ID}, store.Day("nope")); !errors.Is(err, ErrInvalidDay) {
		t.Fatalf("expected ErrInvalidDay, got %v", err)
	}
}

func TestUncheckAll(t *testing.T) {
	svc, st := newTestService(t)
	a, _ := svc.Add("a", store.Monday, store.PriorityHigh)
	b, _ := svc.Add("b", store.Sunday, store.PriorityLow)
	svc.Toggle(a.ID)
	svc.Toggle(b.ID)

	svc.UncheckAll()
	for _, task := range st.Tasks() {
		if task.Completed {
			t.Fatalf("task %s still completed", task.ID)
		}
	}
	if svc.OverallProgress() != 0 {
		t.Fatalf("progress after uncheck = %d", svc.OverallProgress())
	}
}

func TestServiceSort(t *testing.T) {
	svc, st := newTestService(t)
	svc.Add("B", store.Monday, store.PriorityHigh)
	svc.Add("A", store.Monday, store.PriorityLow)
	c, _ := svc.Add("A", store.Monday, store.PriorityHigh)
	svc.Toggle(c.ID)

	svc.Sort()
	persisted := st.Tasks()
	titles := []string{persisted[0].Title, persisted[1].Title, persisted[2].Title}
	if titles[0] != "B" || titles[1] != "A" || titles[2] != "A" || persisted[2].Priority != store.PriorityLow {
		t.Fatalf("unexpected sorted order: %+v", persisted)
	}
}

func TestByDayAndDayProgress(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Add("a", store.Monday, store.PriorityHigh)
	b, _ := svc.Add("b", store.Monday, store.PriorityMedium)
	svc.Add("c", store.Sunday, store.PriorityLow)
	svc.Toggle(b.ID)

	if n := len(svc.ByDay(store.Monday)); n != 2 {
		t.Fatalf("expected 2 Monday tasks, got %d", n)
	}
	if got := svc.DayProgress(store.Monday); got != 33 {
		t.Fatalf("Monday progress = %d, want 33", got)
	}
	if got := svc.DayProgress(store.Tuesday); got != 100 {
		t.Fatalf("empty day progress = %d, want 100", got)
	}
}

func TestServiceLoadsPersistedTasks(t *testing.T) {
	st := newTestStore(t)
	st.SaveTasks([]store.Task{task("a", store.Monday, store.PriorityLow, true)})

	svc := NewService(st, nil)
	if len(svc.All()) != 1 || svc.OverallProgress() != 100 {
		t.Fatalf("service did not load stored tasks: %+v", svc.All())
	}
}
