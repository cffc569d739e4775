package pomodoro

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/clock"
	"github.com/sadopc/mithaq/internal/store"
)

// DefaultAutoStartDelay is the pause between an interval finishing and the
// next one starting on its own.
const DefaultAutoStartDelay = 500 * time.Millisecond

var ErrInvalidSettings = errors.New("durations and long break interval must be at least 1")

// SettingsStore persists the user's timer settings.
type SettingsStore interface {
	PomodoroSettings() store.PomodoroSettings
	SavePomodoroSettings(store.PomodoroSettings) error
}

// Patch is a partial settings update. Nil fields keep their current value.
type Patch struct {
	WorkDuration       *int
	ShortBreakDuration *int
	LongBreakDuration  *int
	LongBreakInterval  *int
	AutoStartBreaks    *bool
	AutoStartPomodoros *bool
}

func (p Patch) apply(s store.PomodoroSettings) store.PomodoroSettings {
	if p.WorkDuration != nil {
		s.WorkDuration = *p.WorkDuration
	}
	if p.ShortBreakDuration != nil {
		s.ShortBreakDuration = *p.ShortBreakDuration
	}
	if p.LongBreakDuration != nil {
		s.LongBreakDuration = *p.LongBreakDuration
	}
	if p.LongBreakInterval != nil {
		s.LongBreakInterval = *p.LongBreakInterval
	}
	if p.AutoStartBreaks != nil {
		s.AutoStartBreaks = *p.AutoStartBreaks
	}
	if p.AutoStartPomodoros != nil {
		s.AutoStartPomodoros = *p.AutoStartPomodoros
	}
	return s
}

// Engine is the focus/break countdown. It is driven by a one-second tick
// from its clock while running. Every exported method is safe to call from
// any goroutine.
type Engine struct {
	mu       sync.Mutex
	clock    clock.Clock
	settings SettingsStore
	counter  *Counter
	log      *zap.SugaredLogger
	delay    time.Duration

	cfg       store.PomodoroSettings
	state     State
	remaining int
	completed int

	// gen changes whenever the tick source or a pending auto-start is
	// invalidated; callbacks carrying an old generation are dropped.
	gen        uint64
	stopTick   func()
	cancelAuto func()
	closed     bool

	subs []func(Event)
}

func NewEngine(c clock.Clock, s SettingsStore, counter *Counter, log *zap.SugaredLogger, autoStartDelay time.Duration) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if autoStartDelay <= 0 {
		autoStartDelay = DefaultAutoStartDelay
	}
	e := &Engine{
		clock:    c,
		settings: s,
		counter:  counter,
		log:      log,
		delay:    autoStartDelay,
		cfg:      s.PomodoroSettings(),
		state:    State{Interval: Work},
	}
	e.remaining = Work.Seconds(e.cfg)
	return e
}

// Subscribe registers fn for every event. fn runs on the goroutine that
// caused the event, after the engine lock is released.
func (e *Engine) Subscribe(fn func(Event)) {
	e.mu.Lock()
	e.subs = append(e.subs, fn)
	e.mu.Unlock()
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		State:            e.state,
		RemainingSeconds: e.remaining,
		CompletedCount:   e.completed,
		WeeklyCount:      e.counter.Value(),
		Settings:         e.cfg,
	}
}

func (e *Engine) Settings() store.PomodoroSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoLocked()
	e.startLocked()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoLocked()
	e.stopLocked()
}

// Toggle pauses a running timer and starts a paused one.
func (e *Engine) Toggle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoLocked()
	if e.state.Running {
		e.stopLocked()
	} else {
		e.startLocked()
	}
}

// Reset refills the current interval and pauses.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoLocked()
	e.stopLocked()
	e.remaining = e.state.Interval.Seconds(e.cfg)
}

// Skip pauses and moves to the next interval without counting the current
// one as finished.
func (e *Engine) Skip() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoLocked()
	e.stopLocked()
	next := Work
	if e.state.Interval == Work {
		next = nextAfterSkip(e.completed, e.cfg.LongBreakInterval)
	}
	e.setIntervalLocked(next)
}

func (e *Engine) ChangeType(i Interval) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoLocked()
	e.stopLocked()
	e.setIntervalLocked(i)
}

// UpdateSettings merges p into the current settings, persists them, pauses
// and refills the current interval with the new duration.
func (e *Engine) UpdateSettings(p Patch) (store.PomodoroSettings, error) {
	e.mu.Lock()
	merged := p.apply(e.cfg)
	if !merged.Valid() {
		cur := e.cfg
		e.mu.Unlock()
		return cur, ErrInvalidSettings
	}
	e.cancelAutoLocked()
	e.cfg = merged
	if err := e.settings.SavePomodoroSettings(merged); err != nil {
		e.log.Errorw("persist pomodoro settings", "error", err)
	}
	e.stopLocked()
	e.remaining = e.state.Interval.Seconds(e.cfg)
	ev := Event{Kind: EventSettingsUpdated, Next: e.state.Interval, Message: "Settings updated"}
	subs := e.subs
	e.mu.Unlock()

	publish(subs, []Event{ev})
	return merged, nil
}

// Tick advances a running timer by one second. The clock calls it while
// running; it is exported for callers that drive the engine themselves.
func (e *Engine) Tick() {
	e.mu.Lock()
	events := e.tickLocked()
	subs := e.subs
	e.mu.Unlock()
	publish(subs, events)
}

// Close stops the tick source and any pending auto-start for good.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelAutoLocked()
	e.stopLocked()
	e.closed = true
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	events := e.tickLocked()
	subs := e.subs
	e.mu.Unlock()
	publish(subs, events)
}

func (e *Engine) tickLocked() []Event {
	if !e.state.Running {
		return nil
	}
	if e.remaining > 0 {
		e.remaining--
	}
	if e.remaining > 0 {
		return nil
	}
	return e.completeLocked()
}

func (e *Engine) completeLocked() []Event {
	e.stopLocked()

	finished := e.state.Interval
	ev := Event{Kind: EventCompleted, Finished: finished}
	var auto bool
	if finished == Work {
		e.completed++
		weekly := e.counter.Increment()
		ev.Next = nextAfterCompletion(e.completed, e.cfg.LongBreakInterval)
		ev.Message = "Pomodoro completed! Take a break"
		auto = e.cfg.AutoStartBreaks
		e.log.Infow("pomodoro completed", "session", e.completed, "week", weekly, "next", ev.Next.String())
	} else {
		ev.Next = Work
		ev.Message = "Break is over! Time to work"
		auto = e.cfg.AutoStartPomodoros
		e.log.Infow("break completed", "interval", finished.String())
	}
	e.setIntervalLocked(ev.Next)

	if auto {
		gen := e.gen
		e.cancelAuto = e.clock.AfterFunc(e.delay, func() { e.autoStart(gen) })
	}
	return []Event{ev}
}

func (e *Engine) autoStart(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.closed || e.state.Running {
		e.mu.Unlock()
		return
	}
	e.cancelAuto = nil
	e.startLocked()
	ev := Event{Kind: EventAutoStarted, Next: e.state.Interval}
	subs := e.subs
	e.mu.Unlock()
	publish(subs, []Event{ev})
}

func (e *Engine) startLocked() {
	if e.closed || e.state.Running {
		return
	}
	e.state.Running = true
	e.gen++
	gen := e.gen
	e.stopTick = e.clock.Every(time.Second, func() { e.tick(gen) })
}

func (e *Engine) stopLocked() {
	e.state.Running = false
	if e.stopTick != nil {
		e.stopTick()
		e.stopTick = nil
	}
	e.gen++
}

func (e *Engine) cancelAutoLocked() {
	if e.cancelAuto != nil {
		e.cancelAuto()
		e.cancelAuto = nil
	}
}

func (e *Engine) setIntervalLocked(i Interval) {
	e.state.Interval = i
	e.remaining = i.Seconds(e.cfg)
}

func publish(subs []func(Event), events []Event) {
	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}
