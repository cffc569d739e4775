package pomodoro

import (
	"sync"

	"go.uber.org/zap"
)

// CountStore persists the weekly counter.
type CountStore interface {
	PomodoroCount() int
	SavePomodoroCount(int) error
}

// Counter is the persisted number of work intervals finished this week.
type Counter struct {
	mu    sync.Mutex
	store CountStore
	log   *zap.SugaredLogger
	value int
}

func NewCounter(s CountStore, log *zap.SugaredLogger) *Counter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Counter{store: s, log: log, value: s.PomodoroCount()}
}

func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *Counter) Increment() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value++
	c.persistLocked()
	return c.value
}

func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = 0
	c.persistLocked()
}

func (c *Counter) persistLocked() {
	if err := c.store.SavePomodoroCount(c.value); err != nil {
		c.log.Errorw("persist pomodoro count", "error", err)
	}
}
