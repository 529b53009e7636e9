package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	clock    *Manual
	deadline time.Time
	seq      uint64
	fn       func()
	stopped  bool
	fired    bool
}

// NewManual creates a manual clock starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc schedules f to run once the clock has been advanced by d.
func (clock *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.seq++
	timer := &manualTimer{
		clock:    clock,
		deadline: clock.now.Add(d),
		seq:      clock.seq,
		fn:       f,
	}
	clock.pending = append(clock.pending, timer)
	return timer
}

// Advance moves the clock forward, running due callbacks in deadline order.
// Callbacks scheduled while advancing run too if they fall inside the window.
func (clock *Manual) Advance(d time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(d)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.popDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = next.deadline
		next.fired = true
		clock.mu.Unlock()

		next.fn()
	}
}

// Pending reports how many callbacks are scheduled and not yet fired or stopped.
func (clock *Manual) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.pending)
}

func (clock *Manual) popDueLocked(target time.Time) *manualTimer {
	if len(clock.pending) == 0 {
		return nil
	}
	sort.SliceStable(clock.pending, func(i, j int) bool {
		left, right := clock.pending[i], clock.pending[j]
		if left.deadline.Equal(right.deadline) {
			return left.seq < right.seq
		}
		return left.deadline.Before(right.deadline)
	})
	next := clock.pending[0]
	if next.deadline.After(target) {
		return nil
	}
	clock.pending = clock.pending[1:]
	return next
}

func (timer *manualTimer) Stop() bool {
	clock := timer.clock
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if timer.stopped || timer.fired {
		return false
	}
	timer.stopped = true
	for index, candidate := range clock.pending {
		if candidate == timer {
			clock.pending = append(clock.pending[:index], clock.pending[index+1:]...)
			break
		}
	}
	return true
}
