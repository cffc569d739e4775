package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestFakeEvery(t *testing.T) {
	f := NewFake(epoch)
	n := 0
	stop := f.Every(time.Second, func() { n++ })

	f.Advance(3500 * time.Millisecond)
	if n != 3 {
		t.Fatalf("expected 3 ticks, got %d", n)
	}

	stop()
	f.Advance(10 * time.Second)
	if n != 3 {
		t.Fatalf("ticks delivered after stop: %d", n)
	}
	if !f.Now().Equal(epoch.Add(13500 * time.Millisecond)) {
		t.Fatalf("unexpected now: %v", f.Now())
	}
}

func TestFakeAfterFunc(t *testing.T) {
	f := NewFake(epoch)
	fired := 0
	f.AfterFunc(500*time.Millisecond, func() { fired++ })

	f.Advance(499 * time.Millisecond)
	if fired != 0 {
		t.Fatal("fired early")
	}
	f.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatal("did not fire at deadline")
	}
	f.Advance(time.Hour)
	if fired != 1 {
		t.Fatal("one-shot fired twice")
	}
	if f.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", f.Pending())
	}
}

func TestFakeAfterFuncStopped(t *testing.T) {
	f := NewFake(epoch)
	fired := false
	stop := f.AfterFunc(time.Second, func() { fired = true })
	stop()
	f.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
}

func TestFakeCallbackCanSchedule(t *testing.T) {
	f := NewFake(epoch)
	var order []string
	f.AfterFunc(time.Second, func() {
		order = append(order, "a")
		f.AfterFunc(time.Second, func() { order = append(order, "b") })
	})
	f.Advance(5 * time.Second)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order: %v", order)
	}
}

func TestFakeSetDoesNotFire(t *testing.T) {
	f := NewFake(epoch)
	fired := false
	f.AfterFunc(time.Second, func() { fired = true })
	f.Set(epoch.Add(time.Hour))
	if fired {
		t.Fatal("Set should not fire timers")
	}
}

func TestRealEveryStop(t *testing.T) {
	var n atomic.Int32
	stop := Real{}.Every(5*time.Millisecond, func() { n.Add(1) })
	time.Sleep(30 * time.Millisecond)
	stop()
	stop() // idempotent
	after := n.Load()
	time.Sleep(30 * time.Millisecond)
	if n.Load() > after+1 {
		t.Fatalf("ticks kept arriving after stop: %d -> %d", after, n.Load())
	}
}
