// Package persistence snapshots timer state into a kvstore.Store and
// reconciles it back into the registry after a restart.
//
// The snapshot is one JSON array stored under StorageKey. Each save replaces
// the previous value. A running timer's record carries the time of the save
// in epoch milliseconds; on load the elapsed wall-clock time since then is
// subtracted from the saved remaining time before the timer is resumed.
//
// Storage failures never propagate into timer state: a failed save is logged
// and the in-memory timers carry on; an unreadable snapshot loads as empty.
package persistence
