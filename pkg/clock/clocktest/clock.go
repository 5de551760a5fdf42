// Package clocktest provides a deterministic clock.Clock for tests.
package clocktest

import (
	"sync"
	"time"

	"github.com/mtimer/mtimer-go/pkg/clock"
)

// Clock is a manually advanced clock. Scheduled functions run synchronously
// on the goroutine calling Advance, in due-time order.
type Clock struct {
	mu        sync.Mutex
	now       time.Time
	seq       uint64
	schedules []*schedule
}

type schedule struct {
	clk     *Clock
	seq     uint64
	next    time.Time
	period  time.Duration
	fn      func()
	stopped bool
}

// New creates a clock set to start.
func New(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t without firing schedules.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Every registers a recurring schedule.
func (c *Clock) Every(d time.Duration, fn func()) clock.Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	s := &schedule{
		clk:    c,
		seq:    c.seq,
		next:   c.now.Add(d),
		period: d,
		fn:     fn,
	}
	c.schedules = append(c.schedules, s)
	return s
}

// Advance moves the clock forward by d, firing every schedule that comes due.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		s := c.nextDue(target)
		if s == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = s.next
		s.next = s.next.Add(s.period)
		fn := s.fn
		c.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest live schedule due at or before target.
func (c *Clock) nextDue(target time.Time) *schedule {
	var best *schedule
	for _, s := range c.schedules {
		if s.stopped || s.next.After(target) {
			continue
		}
		if best == nil || s.next.Before(best.next) || (s.next.Equal(best.next) && s.seq < best.seq) {
			best = s
		}
	}
	return best
}

// Active returns the number of schedules that have not been stopped.
func (c *Clock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, s := range c.schedules {
		if !s.stopped {
			n++
		}
	}
	return n
}

func (s *schedule) Stop() {
	c := s.clk
	c.mu.Lock()
	defer c.mu.Unlock()

	s.stopped = true
	live := c.schedules[:0]
	for _, other := range c.schedules {
		if !other.stopped {
			live = append(live, other)
		}
	}
	c.schedules = live
}

// Compile-time interface satisfaction check.
var _ clock.Clock = (*Clock)(nil)
