// Package countdown implements the per-timer countdown state machine.
//
// Each timer is in one of three states:
//
//	IDLE ──Start──> RUNNING ──tick at 0──> FINISHED
//	  ^               │                       │
//	  └────Pause──────┘                       │
//	  └────Reset (from any state)─────────────┘
//
// A running timer owns exactly one recurring one-second schedule obtained
// from the injected clock. Every tick decrements the remaining time by one
// and updates the presenter; the tick after the remaining time reaches zero
// cancels the schedule and emits the finish notification.
//
// # Threading
//
// The engine is not safe for concurrent use. All calls, and all scheduled
// ticks, must run on one goroutine. pkg/service achieves this by running the
// engine on a loop.Loop and by constructing the clock with that loop as its
// executor.
//
// # Snapshots
//
// Every user-visible mutation triggers a snapshot through the function
// registered with OnSnapshot. The persistence reconciler registers its Save
// method there; the engine does not know about storage.
package countdown
