package timerlog

import (
	"errors"
	"testing"
	"time"
)

func TestEncodeEventPayloadCheck(t *testing.T) {
	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{"StateWithoutPayload", Event{Timestamp: at, Category: CategoryState, TimerID: 1}, false},
		{"StateWithState", Event{Timestamp: at, Category: CategoryState, StateChange: &StateChangeEvent{NewState: "IDLE"}}, false},
		{"SnapshotWithSnapshot", Event{Timestamp: at, Category: CategorySnapshot, Snapshot: &SnapshotEvent{Timers: 2}}, false},
		{"ErrorWithError", Event{Timestamp: at, Category: CategoryError, Error: &ErrorEventData{Component: "store"}}, false},
		{"StateWithSnapshot", Event{Timestamp: at, Category: CategoryState, Snapshot: &SnapshotEvent{}}, true},
		{"ErrorWithState", Event{Timestamp: at, Category: CategoryError, StateChange: &StateChangeEvent{}}, true},
		{"TwoPayloads", Event{
			Timestamp:   at,
			Category:    CategoryState,
			StateChange: &StateChangeEvent{},
			Error:       &ErrorEventData{},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEvent(tt.event)
			if tt.wantErr {
				if !errors.Is(err, ErrPayloadMismatch) {
					t.Fatalf("EncodeEvent error = %v, want ErrPayloadMismatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeEvent error = %v", err)
			}
			if _, err := DecodeEvent(data); err != nil {
				t.Errorf("DecodeEvent error = %v", err)
			}
		})
	}
}

func TestDecodeEventRejectsMismatch(t *testing.T) {
	// Encoded directly, bypassing the payload check.
	data, err := events.enc.Marshal(Event{Category: CategorySnapshot, Error: &ErrorEventData{Message: "x"}})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if _, err := DecodeEvent(data); !errors.Is(err, ErrPayloadMismatch) {
		t.Errorf("DecodeEvent error = %v, want ErrPayloadMismatch", err)
	}
}

func TestEncodeEventIsDeterministic(t *testing.T) {
	ev := Event{
		Timestamp: time.Date(2026, 5, 1, 8, 30, 0, 123456789, time.UTC),
		SessionID: "sess",
		Category:  CategorySnapshot,
		Snapshot:  &SnapshotEvent{Op: SnapshotSave, Timers: 3, Running: 1, Bytes: 90},
	}
	a, err := EncodeEvent(ev)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := EncodeEvent(ev)
	if string(a) != string(b) {
		t.Error("encoding is not deterministic")
	}

	out, err := DecodeEvent(a)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Timestamp.Equal(ev.Timestamp) {
		t.Errorf("Timestamp = %v, want %v (nanoseconds kept)", out.Timestamp, ev.Timestamp)
	}
}
