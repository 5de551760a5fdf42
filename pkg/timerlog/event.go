package timerlog

import "time"

// Event represents a timer log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the process run (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// TimerID is the timer the event concerns (0 for store-wide events).
	TimerID int `cbor:"4,keyasint,omitempty"`

	// TimerName is the displayed name at the time of the event.
	TimerName string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"`
	Snapshot    *SnapshotEvent    `cbor:"11,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"12,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a timer state transition.
	CategoryState Category = 0
	// CategorySnapshot indicates a save or load of the persisted snapshot.
	CategorySnapshot Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategorySnapshot:
		return "SNAPSHOT"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a timer lifecycle transition.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty for new timers).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason is the action that caused the change (start, pause, reset, ...).
	Reason string `cbor:"3,keyasint,omitempty"`

	// TimeLeft is the remaining time in seconds after the change.
	TimeLeft int `cbor:"4,keyasint"`
}

// SnapshotOp distinguishes saves from loads.
type SnapshotOp uint8

const (
	// SnapshotSave indicates the snapshot was written.
	SnapshotSave SnapshotOp = 0
	// SnapshotLoad indicates the snapshot was read and reconciled.
	SnapshotLoad SnapshotOp = 1
)

// String returns the operation name.
func (o SnapshotOp) String() string {
	switch o {
	case SnapshotSave:
		return "SAVE"
	case SnapshotLoad:
		return "LOAD"
	default:
		return "UNKNOWN"
	}
}

// SnapshotEvent captures a persisted snapshot write or read.
type SnapshotEvent struct {
	// Op is the snapshot operation.
	Op SnapshotOp `cbor:"1,keyasint"`

	// Timers is the number of timer records.
	Timers int `cbor:"2,keyasint"`

	// Running is the number of records flagged as running.
	Running int `cbor:"3,keyasint,omitempty"`

	// Bytes is the encoded snapshot size.
	Bytes int `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors.
type ErrorEventData struct {
	// Component where the error occurred (store, reconciler, engine).
	Component string `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
