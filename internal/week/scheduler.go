package week

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/store"
)

// DefaultSchedule fires at the first minute of the week's start day.
const DefaultSchedule = "0 0 * * 6"

// Scheduler runs CheckWeekEnd on a cron schedule so a rollover happens even
// when nobody switches views.
type Scheduler struct {
	cron     *cron.Cron
	detector *Detector
	log      *zap.SugaredLogger

	mu    sync.Mutex
	hooks []func(store.WeeklyScore)
}

func NewScheduler(d *Detector, spec string, loc *time.Location, log *zap.SugaredLogger) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		detector: d,
		log:      log,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule week check %q: %w", spec, err)
	}
	return s, nil
}

// OnRollover registers fn to be called with the stored score whenever a
// scheduled check closes a week. fn runs on the cron goroutine.
func (s *Scheduler) OnRollover(fn func(store.WeeklyScore)) {
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

func (s *Scheduler) run() {
	score, ok := s.detector.CheckWeekEnd()
	if !ok {
		return
	}
	s.log.Infow("scheduled rollover stored score", "score", score.ID)

	s.mu.Lock()
	hooks := append(([]func(store.WeeklyScore))(nil), s.hooks...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(score)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
