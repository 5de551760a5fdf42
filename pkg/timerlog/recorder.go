package timerlog

import (
	"time"

	"github.com/google/uuid"
)

// Recorder stamps events with a session id and timestamp before passing them
// to a Logger. A nil *Recorder discards everything.
type Recorder struct {
	logger  Logger
	session string
	now     func() time.Time
}

// NewRecorder creates a recorder with a fresh session id.
// A nil now defaults to time.Now.
func NewRecorder(logger Logger, now func() time.Time) *Recorder {
	if logger == nil {
		logger = NoopLogger{}
	}
	if now == nil {
		now = time.Now
	}
	return &Recorder{
		logger:  logger,
		session: uuid.New().String(),
		now:     now,
	}
}

// SessionID returns the session id stamped on every event.
func (r *Recorder) SessionID() string {
	if r == nil {
		return ""
	}
	return r.session
}

// State records a timer state transition.
func (r *Recorder) State(id int, name, oldState, newState, reason string, timeLeft int) {
	if r == nil {
		return
	}
	r.logger.Log(Event{
		Timestamp: r.now(),
		SessionID: r.session,
		Category:  CategoryState,
		TimerID:   id,
		TimerName: name,
		StateChange: &StateChangeEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
			TimeLeft: timeLeft,
		},
	})
}

// Snapshot records a save or load of the persisted snapshot.
func (r *Recorder) Snapshot(op SnapshotOp, timers, running, size int) {
	if r == nil {
		return
	}
	r.logger.Log(Event{
		Timestamp: r.now(),
		SessionID: r.session,
		Category:  CategorySnapshot,
		Snapshot: &SnapshotEvent{
			Op:      op,
			Timers:  timers,
			Running: running,
			Bytes:   size,
		},
	})
}

// Error records an error.
func (r *Recorder) Error(component string, err error, context string) {
	if r == nil || err == nil {
		return
	}
	r.logger.Log(Event{
		Timestamp: r.now(),
		SessionID: r.session,
		Category:  CategoryError,
		Error: &ErrorEventData{
			Component: component,
			Message:   err.Error(),
			Context:   context,
		},
	})
}
