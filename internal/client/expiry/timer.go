// Package expiry schedules the one-shot callback that ends a session when
// its token lifetime runs out.
package expiry

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer arms cancellable one-shot callbacks on a clock. Production code uses
// clockwork.NewRealClock(); tests pass a fake clock and advance it.
type Timer struct {
	clock clockwork.Clock
}

func New(clock clockwork.Clock) *Timer {
	return &Timer{clock: clock}
}

// Handle identifies one armed callback.
type Handle struct {
	deadline time.Time
	timer    clockwork.Timer
	done     atomic.Bool
}

// Deadline is when the callback was scheduled to run.
func (h *Handle) Deadline() time.Time {
	return h.deadline
}

// Pending reports whether the callback has neither run nor been disarmed.
func (h *Handle) Pending() bool {
	return h != nil && !h.done.Load()
}

// Arm schedules onFire to run once, on its own goroutine, after d.
func (t *Timer) Arm(d time.Duration, onFire func()) *Handle {
	h := &Handle{deadline: t.clock.Now().Add(d)}
	h.timer = t.clock.AfterFunc(d, func() {
		if h.done.CompareAndSwap(false, true) {
			onFire()
		}
	})
	return h
}

// Disarm cancels h. Disarming a nil, fired or already disarmed handle does
// nothing. Once Disarm returns, onFire will not start.
func (t *Timer) Disarm(h *Handle) {
	if h == nil {
		return
	}
	if h.done.CompareAndSwap(false, true) {
		h.timer.Stop()
	}
}
