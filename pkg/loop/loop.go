// Package loop provides the single event loop on which all timer callbacks,
// periodic saves and user actions run.
//
// Functions posted to a Loop execute one at a time on the goroutine running
// Run, so state owned by the loop needs no further locking.
package loop

import (
	"context"
	"errors"
	"sync"
)

// DefaultBuffer is the queue size used when New is called with zero.
const DefaultBuffer = 256

// ErrClosed is returned when posting to a loop that has been closed.
var ErrClosed = errors.New("event loop closed")

// Loop is a serial executor.
type Loop struct {
	queue chan func()
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// New creates a loop with the given queue size.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Loop{
		queue: make(chan func(), buffer),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Run executes posted functions until ctx is done or Close is called.
// Functions still queued at shutdown are drained before Run returns.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			l.Close()
			l.drain()
			return
		case <-l.stop:
			l.drain()
			return
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// Post queues fn for execution. It blocks while the queue is full and
// returns ErrClosed once the loop is closed.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stop:
		return ErrClosed
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.stop:
		return ErrClosed
	}
}

// Call queues fn and waits for it to finish.
// Calling it from a function already running on the loop deadlocks.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// Queued after the final drain.
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new functions. Run drains what is queued and returns.
// Posters blocked on a full queue return ErrClosed.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.stop)
	})
}

// Done is closed when Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
