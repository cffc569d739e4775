package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced clock for tests. Scheduled callbacks run
// synchronously inside Advance, on the caller's goroutine.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	id      int
	next    time.Time
	period  time.Duration // zero for one-shot timers
	fn      func()
	stopped bool
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the wall clock without firing any timers.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

func (f *Fake) Every(d time.Duration, fn func()) func() {
	return f.schedule(d, d, fn)
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) func() {
	return f.schedule(d, 0, fn)
}

func (f *Fake) schedule(after, period time.Duration, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t := &fakeTimer{id: f.seq, next: f.now.Add(after), period: period, fn: fn}
	f.timers = append(f.timers, t)
	return func() {
		f.mu.Lock()
		t.stopped = true
		f.mu.Unlock()
	}
}

// Advance moves the clock forward by d, firing every callback that falls due
// in order of its deadline.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		t := f.nextDueLocked(target)
		if t == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = t.next
		if t.period > 0 {
			t.next = t.next.Add(t.period)
		} else {
			t.stopped = true
		}
		fn := t.fn
		f.mu.Unlock()

		fn()
	}
}

// Pending reports how many timers are still scheduled.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruneLocked()
	return len(f.timers)
}

func (f *Fake) nextDueLocked(target time.Time) *fakeTimer {
	f.pruneLocked()
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].next.Equal(f.timers[j].next) {
			return f.timers[i].id < f.timers[j].id
		}
		return f.timers[i].next.Before(f.timers[j].next)
	})
	if len(f.timers) == 0 || f.timers[0].next.After(target) {
		return nil
	}
	return f.timers[0]
}

func (f *Fake) pruneLocked() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	f.timers = live
}
