// Package timerlog provides a structured lifecycle log for timers.
//
// This package defines the Logger interface and Event types for capturing
// timer state transitions, snapshots and storage errors. It is separate from
// operational logging (slog): the timer log is a complete machine-readable
// trace that the mtimer-log tool can view, filter and export.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	logger := timerlog.NewSlogAdapter(slog.Default())
//
//	// For long-running sessions: write to a binary file
//	logger, _ := timerlog.NewFileLogger("/var/log/mtimer/session.tlog")
//
//	// Both
//	logger := timerlog.Tee(
//	    timerlog.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// Producers normally go through a Recorder, which stamps events with the
// session id and the injected clock.
//
// # File Format
//
// Log files use CBOR encoding with the .tlog extension. Each event is one
// CBOR map with integer keys, appended back to back. A truncated final item,
// left by a process killed mid-write, reads as the end of the log.
package timerlog
