package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/clock"
	"github.com/sadopc/mithaq/internal/config"
	"github.com/sadopc/mithaq/internal/pomodoro"
	"github.com/sadopc/mithaq/internal/store"
	"github.com/sadopc/mithaq/internal/tasks"
	"github.com/sadopc/mithaq/internal/week"
)

// App owns the store and every service built on it. One App backs either
// the TUI or a single CLI command.
type App struct {
	Clock     clock.Clock
	Store     *store.Store
	Tasks     *tasks.Service
	Counter   *pomodoro.Counter
	Engine    *pomodoro.Engine
	Detector  *week.Detector
	Scheduler *week.Scheduler

	log *zap.SugaredLogger
}

// Options override the pieces tests swap out.
type Options struct {
	Clock clock.Clock
	// Store, when set, is used instead of opening cfg.DBPath.
	Store *store.Store
	// Location for the rollover schedule; defaults to time.Local.
	Location *time.Location
}

func New(cfg *config.Config, log *zap.SugaredLogger, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := opts.Clock
	if c == nil {
		c = clock.Real{}
	}

	st := opts.Store
	if st == nil {
		var err error
		st, err = store.New(cfg.DBPath, log.Named("store"))
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	a := &App{Clock: c, Store: st, log: log}
	a.Tasks = tasks.NewService(st, log.Named("tasks"))
	a.Counter = pomodoro.NewCounter(st, log.Named("pomodoro"))
	a.Engine = pomodoro.NewEngine(c, st, a.Counter, log.Named("pomodoro"), cfg.Pomodoro.AutoStartDelay)

	var marker week.Marker = &week.MemoryMarker{}
	if cfg.Week.DurableMarker {
		marker = week.StoreMarker{Store: st}
	}
	a.Detector = week.NewDetector(c, a.Tasks, a.Counter, st, marker, cfg.YearBoundary(), log.Named("week"))

	sched, err := week.NewScheduler(a.Detector, cfg.Week.Cron, opts.Location, log.Named("week"))
	if err != nil {
		a.Engine.Close()
		st.Close()
		return nil, err
	}
	a.Scheduler = sched
	return a, nil
}

// Start runs a rollover check for the current day and starts the schedule.
func (a *App) Start() {
	if score, ok := a.Detector.CheckWeekEnd(); ok {
		a.log.Infow("startup rollover", "score", score.ID)
	}
	a.Scheduler.Start()
}

func (a *App) Close() error {
	a.Scheduler.Stop()
	a.Engine.Close()
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}
