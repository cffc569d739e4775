package clock

import (
	"sync"
	"time"
)

// Clock supplies wall-clock time and the scheduling primitives used by the
// timer engine and the week detector.
type Clock interface {
	Now() time.Time
	// Every calls fn every d until the returned stop func is called.
	Every(d time.Duration, fn func()) (stop func())
	// AfterFunc calls fn once after d unless stop is called first.
	AfterFunc(d time.Duration, fn func()) (stop func())
}

// Real is the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

func (Real) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
