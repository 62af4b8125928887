package clock

import (
	"sort"
	"sync"
	"time"
)

// Virtual is a manually advanced Clock for deterministic tests. Timers and
// tickers fire synchronously inside Advance, in deadline order.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*virtualWaiter
}

type virtualWaiter struct {
	deadline time.Time
	period   time.Duration // zero for one-shot timers
	ch       chan time.Time
	stopped  bool
}

// NewVirtual returns a Virtual clock starting at the given instant.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) NewTicker(d time.Duration) Ticker {
	w := v.addWaiter(d, d)
	return virtualTicker{v: v, w: w}
}

func (v *Virtual) NewTimer(d time.Duration) Timer {
	w := v.addWaiter(d, 0)
	return virtualTimer{v: v, w: w}
}

func (v *Virtual) addWaiter(d, period time.Duration) *virtualWaiter {
	v.mu.Lock()
	defer v.mu.Unlock()
	w := &virtualWaiter{
		deadline: v.now.Add(d),
		period:   period,
		ch:       make(chan time.Time, 1),
	}
	v.waiters = append(v.waiters, w)
	return w
}

// Advance moves virtual time forward by d, firing every timer and ticker
// whose deadline falls within the step. Ticks that find a full channel are
// dropped, matching time.Ticker semantics.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	for {
		w := v.nextDue(target)
		if w == nil {
			break
		}
		v.now = w.deadline
		select {
		case w.ch <- w.deadline:
		default:
		}
		if w.period > 0 {
			w.deadline = w.deadline.Add(w.period)
		} else {
			w.stopped = true
		}
		// Release the lock between fires so goroutines blocked on the
		// channel can run against a consistent virtual time.
		v.mu.Unlock()
		v.mu.Lock()
	}
	v.now = target
	v.mu.Unlock()
}

// nextDue returns the live waiter with the earliest deadline not after
// target, or nil. Caller holds the lock.
func (v *Virtual) nextDue(target time.Time) *virtualWaiter {
	live := v.waiters[:0]
	for _, w := range v.waiters {
		if !w.stopped {
			live = append(live, w)
		}
	}
	v.waiters = live
	sort.SliceStable(v.waiters, func(i, j int) bool {
		return v.waiters[i].deadline.Before(v.waiters[j].deadline)
	})
	if len(v.waiters) == 0 || v.waiters[0].deadline.After(target) {
		return nil
	}
	return v.waiters[0]
}

type virtualTicker struct {
	v *Virtual
	w *virtualWaiter
}

func (t virtualTicker) C() <-chan time.Time { return t.w.ch }

func (t virtualTicker) Stop() {
	t.v.mu.Lock()
	t.w.stopped = true
	t.v.mu.Unlock()
}

type virtualTimer struct {
	v *Virtual
	w *virtualWaiter
}

func (t virtualTimer) C() <-chan time.Time { return t.w.ch }

func (t virtualTimer) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	active := !t.w.stopped
	t.w.stopped = true
	return active
}
