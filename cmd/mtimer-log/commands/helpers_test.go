package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

var base = time.Date(2026, 2, 10, 7, 0, 0, 0, time.UTC)

const (
	sessionA = "aaaaaaaa-1111-2222-3333-444444444444"
	sessionB = "bbbbbbbb-1111-2222-3333-444444444444"
)

func createTestLog(t *testing.T, events []timerlog.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tlog")

	logger, err := timerlog.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close test log: %v", err)
	}
	return path
}

func state(at time.Duration, session string, id int, name, oldState, newState, reason string, left int) timerlog.Event {
	return timerlog.Event{
		Timestamp: base.Add(at),
		SessionID: session,
		Category:  timerlog.CategoryState,
		TimerID:   id,
		TimerName: name,
		StateChange: &timerlog.StateChangeEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
			TimeLeft: left,
		},
	}
}

func snapshot(at time.Duration, session string, op timerlog.SnapshotOp, timers, running int) timerlog.Event {
	return timerlog.Event{
		Timestamp: base.Add(at),
		SessionID: session,
		Category:  timerlog.CategorySnapshot,
		Snapshot:  &timerlog.SnapshotEvent{Op: op, Timers: timers, Running: running, Bytes: 120},
	}
}

// sampleEvents is two sessions: tea is started and finishes, eggs is paused,
// then the second session restores eggs.
func sampleEvents() []timerlog.Event {
	return []timerlog.Event{
		snapshot(0, sessionA, timerlog.SnapshotLoad, 0, 0),
		state(1*time.Second, sessionA, 1, "Tea", "", "IDLE", "add", 60),
		state(2*time.Second, sessionA, 1, "Tea", "IDLE", "RUNNING", "start", 60),
		state(3*time.Second, sessionA, 2, "Eggs", "", "IDLE", "add", 60),
		state(4*time.Second, sessionA, 2, "Eggs", "IDLE", "RUNNING", "start", 60),
		state(10*time.Second, sessionA, 2, "Eggs", "RUNNING", "IDLE", "pause", 54),
		state(63*time.Second, sessionA, 1, "Tea", "RUNNING", "FINISHED", "tick", 0),
		snapshot(64*time.Second, sessionA, timerlog.SnapshotSave, 2, 0),
		{
			Timestamp: base.Add(65 * time.Second),
			SessionID: sessionA,
			Category:  timerlog.CategoryError,
			Error:     &timerlog.ErrorEventData{Component: "store", Message: "disk full", Context: "save"},
		},
		snapshot(120*time.Second, sessionB, timerlog.SnapshotLoad, 2, 0),
		state(121*time.Second, sessionB, 2, "Eggs", "IDLE", "RUNNING", "start", 54),
	}
}
