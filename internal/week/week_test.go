package week

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/clock"
	"github.com/sadopc/mithaq/internal/pomodoro"
	"github.com/sadopc/mithaq/internal/store"
	"github.com/sadopc/mithaq/internal/tasks"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

// ============================================================
// Week numbering
// ============================================================

func TestNumber(t *testing.T) {
	tests := []struct {
		at   time.Time
		want int
	}{
		{date(2025, time.January, 1, 12), 1},  // Wednesday
		{date(2025, time.January, 3, 23), 1},  // Friday
		{date(2025, time.January, 4, 0), 2},   // first Saturday
		{date(2025, time.February, 28, 9), 9}, // Friday
		{date(2025, time.March, 1, 0), 10},    // Saturday
		{date(2023, time.January, 1, 8), 1},   // Sunday
		{date(2023, time.January, 7, 8), 2},   // Saturday
		{date(2022, time.January, 1, 8), 2},   // year starts on Saturday
		{date(2022, time.December, 31, 8), 54},
	}
	for _, tt := range tests {
		if got := Number(tt.at); got != tt.want {
			t.Fatalf("Number(%s) = %d, want %d", tt.at.Format("2006-01-02 Mon"), got, tt.want)
		}
	}
}

func TestNumberChangesOnlyOnSaturday(t *testing.T) {
	day := date(2024, time.January, 1, 6)
	prev := Number(day)
	for i := 1; i < 366; i++ {
		day = day.AddDate(0, 0, 1)
		n := Number(day)
		if day.Weekday() == time.Saturday {
			if n != prev+1 {
				t.Fatalf("%s: number %d, previous %d", day.Format("2006-01-02"), n, prev)
			}
		} else if n != prev {
			t.Fatalf("%s: number changed mid-week %d -> %d", day.Format("2006-01-02 Mon"), prev, n)
		}
		prev = n
	}
}

func TestIDString(t *testing.T) {
	if got := (ID{Year: 2025, Number: 9}).String(); got != "2025-9" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// Year boundary policy
// ============================================================

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy(""); err != nil || p != PolicyLiteral {
		t.Fatalf("empty policy: %v %v", p, err)
	}
	if p, err := ParsePolicy("wrap"); err != nil || p != PolicyWrap {
		t.Fatalf("wrap policy: %v %v", p, err)
	}
	if _, err := ParsePolicy("iso"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestPolicyPrevious(t *testing.T) {
	tests := []struct {
		name   string
		policy YearBoundaryPolicy
		at     time.Time
		want   ID
	}{
		{"literal mid-year", PolicyLiteral, date(2025, time.March, 1, 0), ID{2025, 9}},
		{"wrap mid-year", PolicyWrap, date(2025, time.March, 1, 0), ID{2025, 9}},
		{"literal first Saturday", PolicyLiteral, date(2025, time.January, 4, 0), ID{2025, 1}},
		{"wrap first Saturday", PolicyWrap, date(2025, time.January, 4, 0), ID{2024, 53}},
		{"literal Jan 1 Saturday", PolicyLiteral, date(2022, time.January, 1, 0), ID{2022, 1}},
		{"wrap Jan 1 Saturday", PolicyWrap, date(2022, time.January, 1, 0), ID{2021, 53}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Previous(tt.at); got != tt.want {
				t.Fatalf("Previous = %v, want %v", got, tt.want)
			}
		})
	}
}

// Under the literal policy the closed week is never numbered 0: the
// earliest Saturday of any year is already in week 2.
func TestLiteralPolicyNeverZero(t *testing.T) {
	day := date(2000, time.January, 1, 0)
	end := date(2041, time.January, 1, 0)
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() != StartDay {
			continue
		}
		if prev := PolicyLiteral.Previous(day); prev.Number < 1 {
			t.Fatalf("%s: previous week %v", day.Format("2006-01-02"), prev)
		}
	}
}

// ============================================================
// Detector
// ============================================================

type env struct {
	clock    *clock.Fake
	store    *store.Store
	tasks    *tasks.Service
	counter  *pomodoro.Counter
	detector *Detector
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory(zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newEnv(t *testing.T, st *store.Store, at time.Time, marker Marker, policy YearBoundaryPolicy) *env {
	t.Helper()
	e := &env{clock: clock.NewFake(at), store: st}
	e.tasks = tasks.NewService(st, nil)
	e.counter = pomodoro.NewCounter(st, nil)
	e.detector = NewDetector(e.clock, e.tasks, e.counter, st, marker, policy, nil)
	return e
}

// seed adds two tasks (high done, low open) and three pomodoros.
func (e *env) seed(t *testing.T) {
	t.Helper()
	a, err := e.tasks.Add("Fajr on time", store.Friday, store.PriorityHigh)
	if err != nil {
		t.Fatal(err)
	}
	e.tasks.Add("Journal", store.Friday, store.PriorityLow)
	e.tasks.Toggle(a.ID)
	for i := 0; i < 3; i++ {
		e.counter.Increment()
	}
}

func TestCheckWeekEndNotStartDay(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.February, 28, 23), nil, PolicyLiteral)
	e.seed(t)

	if _, ok := e.detector.CheckWeekEnd(); ok {
		t.Fatal("no rollover expected on Friday")
	}
	if len(e.store.WeeklyScores()) != 0 || e.counter.Value() != 3 {
		t.Fatal("state changed on a non-start day")
	}
}

func TestCheckWeekEndRollover(t *testing.T) {
	at := date(2025, time.March, 1, 0)
	e := newEnv(t, newTestStore(t), at, nil, PolicyLiteral)
	e.seed(t)

	score, ok := e.detector.CheckWeekEnd()
	if !ok {
		t.Fatal("expected rollover on Saturday")
	}
	want := store.WeeklyScore{
		ID:                   "2025-9",
		WeekNumber:           9,
		Year:                 2025,
		CompletionPercentage: 86,
		PomodoroCount:        3,
		EndDate:              at,
	}
	if score != want {
		t.Fatalf("score = %+v\nwant    %+v", score, want)
	}

	stored := e.store.WeeklyScores()
	if len(stored) != 1 || stored[0].ID != "2025-9" || !stored[0].EndDate.Equal(at) {
		t.Fatalf("stored scores = %+v", stored)
	}
	for _, task := range e.store.Tasks() {
		if task.Completed {
			t.Fatal("tasks not unchecked")
		}
	}
	if e.counter.Value() != 0 || e.store.PomodoroCount() != 0 {
		t.Fatal("counter not reset")
	}
}

func TestCheckWeekEndIdempotentWithinProcess(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.March, 1, 0), nil, PolicyLiteral)
	e.seed(t)

	e.detector.CheckWeekEnd()
	e.counter.Increment() // work done after the rollover
	e.clock.Advance(6 * time.Hour)

	if _, ok := e.detector.CheckWeekEnd(); ok {
		t.Fatal("second check on the same day must not roll over")
	}
	if n := len(e.store.WeeklyScores()); n != 1 {
		t.Fatalf("expected one score, got %d", n)
	}
	if e.counter.Value() != 1 {
		t.Fatal("counter reset twice")
	}
}

func TestCheckWeekEndNextWeek(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.March, 1, 0), nil, PolicyLiteral)
	e.detector.CheckWeekEnd()

	e.clock.Set(date(2025, time.March, 8, 10))
	score, ok := e.detector.CheckWeekEnd()
	if !ok || score.ID != "2025-10" {
		t.Fatalf("expected rollover of 2025-10, got %+v ok=%v", score, ok)
	}
	if score.CompletionPercentage != 100 {
		t.Fatalf("empty task list should score 100, got %d", score.CompletionPercentage)
	}
}

// With the in-process marker a restart on the same Saturday rolls over
// again. This is the documented behaviour of the memory marker.
func TestMemoryMarkerDoesNotSurviveRestart(t *testing.T) {
	st := newTestStore(t)
	at := date(2025, time.March, 1, 0)

	first := newEnv(t, st, at, &MemoryMarker{}, PolicyLiteral)
	first.detector.CheckWeekEnd()

	second := newEnv(t, st, at.Add(time.Hour), &MemoryMarker{}, PolicyLiteral)
	second.detector.CheckWeekEnd()

	if n := len(st.WeeklyScores()); n != 2 {
		t.Fatalf("expected double append with memory markers, got %d", n)
	}
}

func TestStoreMarkerSharedAcrossProcesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	open := func() *store.Store {
		s, err := store.New(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	}
	a, b := open(), open()
	at := date(2025, time.March, 1, 0)

	ea := newEnv(t, a, at, StoreMarker{Store: a}, PolicyLiteral)
	eb := newEnv(t, b, at, StoreMarker{Store: b}, PolicyLiteral)

	_, okA := ea.detector.CheckWeekEnd()
	_, okB := eb.detector.CheckWeekEnd()
	if !okA || okB {
		t.Fatalf("exactly the first detector should roll over: a=%v b=%v", okA, okB)
	}
	if n := len(a.WeeklyScores()); n != 1 {
		t.Fatalf("expected one score in shared store, got %d", n)
	}
	marker := StoreMarker{Store: b}
	if got := marker.Last(); got != "2025-10" {
		t.Fatalf("marker = %q, want 2025-10", got)
	}
}

func TestDetectorWrapPolicy(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.January, 4, 1), nil, PolicyWrap)
	score, ok := e.detector.CheckWeekEnd()
	if !ok {
		t.Fatal("expected rollover")
	}
	if score.Year != 2024 || score.WeekNumber != 53 || score.ID != "2024-53" {
		t.Fatalf("unexpected label %+v", score)
	}
}

func TestMemoryMarker(t *testing.T) {
	m := &MemoryMarker{}
	if ok, _ := m.Claim("2025-1"); !ok {
		t.Fatal("first claim should succeed")
	}
	if ok, _ := m.Claim("2025-1"); ok {
		t.Fatal("repeat claim should fail")
	}
	if m.Last() != "2025-1" {
		t.Fatalf("last = %q", m.Last())
	}
}

// ============================================================
// Scheduler
// ============================================================

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.March, 1, 0), nil, PolicyLiteral)
	if _, err := NewScheduler(e.detector, "not a cron line", time.UTC, nil); err == nil {
		t.Fatal("expected error for an invalid cron expression")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.March, 1, 0), nil, PolicyLiteral)
	s, err := NewScheduler(e.detector, "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	s.Stop()
}

func TestSchedulerNotifiesOnRollover(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.March, 1, 0), nil, PolicyLiteral)
	e.seed(t)
	s, err := NewScheduler(e.detector, "", time.UTC, nil)
	if err != nil {
		t.Fatal(err)
	}

	var got []store.WeeklyScore
	s.OnRollover(func(score store.WeeklyScore) { got = append(got, score) })

	s.run()
	s.run()
	if len(got) != 1 {
		t.Fatalf("want one notification, got %d", len(got))
	}
	if got[0].ID != "2025-9" || got[0].CompletionPercentage != 86 || got[0].PomodoroCount != 3 {
		t.Fatalf("score = %+v", got[0])
	}
}

func TestSchedulerQuietMidWeek(t *testing.T) {
	e := newEnv(t, newTestStore(t), date(2025, time.March, 5, 12), nil, PolicyLiteral)
	s, err := NewScheduler(e.detector, "", time.UTC, nil)
	if err != nil {
		t.Fatal(err)
	}
	called := false
	s.OnRollover(func(store.WeeklyScore) { called = true })
	s.run()
	if called {
		t.Fatal("no rollover expected on a wednesday")
	}
}
