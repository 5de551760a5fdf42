// Package clock provides the time source and recurring scheduler used by the
// countdown engine and the persistence reconciler.
//
// Both are injected so that tests can drive time deterministically with
// clocktest.Clock instead of waiting on wall-clock seconds.
package clock

import (
	"sync"
	"sync/atomic"
	"time"
)

// Handle cancels a recurring schedule.
// After Stop returns the scheduled function is never invoked again.
type Handle interface {
	Stop()
}

// Clock provides time-related operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Every runs fn every d until the returned handle is stopped.
	// The first run happens d after the call.
	Every(d time.Duration, fn func()) Handle
}

// Executor runs scheduled functions. loop.Loop implements it.
type Executor interface {
	Post(fn func()) error
}

// Real is a Clock backed by the system clock.
type Real struct {
	exec Executor
}

// New creates a system clock. Scheduled functions are posted to exec so that
// they run on the caller's event loop. With a nil exec they run on the
// ticker goroutine.
func New(exec Executor) *Real {
	return &Real{exec: exec}
}

// Now returns time.Now().
func (c *Real) Now() time.Time {
	return time.Now()
}

// Every starts a ticker that runs fn every d.
func (c *Real) Every(d time.Duration, fn func()) Handle {
	h := &realHandle{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-h.done:
				return
			case <-h.ticker.C:
				if h.stopped.Load() {
					return
				}
				c.dispatch(h, fn)
			}
		}
	}()

	return h
}

func (c *Real) dispatch(h *realHandle, fn func()) {
	guarded := func() {
		// A tick can be queued on the executor right before Stop.
		if h.stopped.Load() {
			return
		}
		fn()
	}

	if c.exec == nil {
		guarded()
		return
	}
	if err := c.exec.Post(guarded); err != nil {
		// Executor is gone; nothing left to tick for.
		h.Stop()
	}
}

type realHandle struct {
	ticker  *time.Ticker
	done    chan struct{}
	stopped atomic.Bool
	once    sync.Once
}

func (h *realHandle) Stop() {
	h.stopped.Store(true)
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}

// Compile-time interface satisfaction check.
var _ Clock = (*Real)(nil)
