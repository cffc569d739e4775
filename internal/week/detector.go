package week

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/clock"
	"github.com/sadopc/mithaq/internal/store"
)

// Tasks is what the detector needs from the task service.
type Tasks interface {
	OverallProgress() int
	UncheckAll()
}

// Counter is the weekly pomodoro counter.
type Counter interface {
	Value() int
	Reset()
}

type ScoreStore interface {
	AppendWeeklyScore(store.WeeklyScore) error
}

// Detector snapshots and resets the week once the week boundary has been
// crossed.
type Detector struct {
	mu      sync.Mutex
	clock   clock.Clock
	tasks   Tasks
	counter Counter
	scores  ScoreStore
	marker  Marker
	policy  YearBoundaryPolicy
	log     *zap.SugaredLogger
}

func NewDetector(c clock.Clock, tasks Tasks, counter Counter, scores ScoreStore, marker Marker, policy YearBoundaryPolicy, log *zap.SugaredLogger) *Detector {
	if marker == nil {
		marker = &MemoryMarker{}
	}
	if policy == "" {
		policy = PolicyLiteral
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Detector{
		clock:   c,
		tasks:   tasks,
		counter: counter,
		scores:  scores,
		marker:  marker,
		policy:  policy,
		log:     log,
	}
}

// Current returns the identity of the week containing now.
func (d *Detector) Current() ID {
	return Of(d.clock.Now())
}

// CheckWeekEnd performs the rollover if today is the week's start day and
// this week has not been rolled over yet. It returns the stored score and
// true when a rollover happened.
func (d *Detector) CheckWeekEnd() (store.WeeklyScore, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	if now.Weekday() != StartDay {
		return store.WeeklyScore{}, false
	}
	current := Of(now).String()

	claimed, err := d.marker.Claim(current)
	if err != nil {
		d.log.Errorw("claim week rollover", "week", current, "error", err)
		return store.WeeklyScore{}, false
	}
	if !claimed {
		return store.WeeklyScore{}, false
	}

	prev := d.policy.Previous(now)
	score := store.WeeklyScore{
		ID:                   prev.String(),
		WeekNumber:           prev.Number,
		Year:                 prev.Year,
		CompletionPercentage: d.tasks.OverallProgress(),
		PomodoroCount:        d.counter.Value(),
		EndDate:              now,
	}
	if err := d.scores.AppendWeeklyScore(score); err != nil {
		d.log.Errorw("append weekly score", "week", score.ID, "error", err)
	}
	d.tasks.UncheckAll()
	d.counter.Reset()

	d.log.Infow("week rolled over",
		"week", current,
		"closed", score.ID,
		"completion", score.CompletionPercentage,
		"pomodoros", score.PomodoroCount,
	)
	return score, true
}
