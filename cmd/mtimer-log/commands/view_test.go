package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

func TestFormatStateEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, state(1500*time.Millisecond, sessionA, 3, "Tea", "IDLE", "RUNNING", "start", 125))
	output := buf.String()

	for _, want := range []string{
		"2026-02-10T07:00:01.500Z",
		"[aaaaaaaa]",
		"STATE",
		`#3 "Tea"`,
		"IDLE -> RUNNING",
		"Reason: start",
		"Left: 02:05",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatNewTimerEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, state(0, sessionA, 1, "", "", "IDLE", "add", 60))
	output := buf.String()

	if !strings.Contains(output, "  -> IDLE") {
		t.Errorf("expected initial transition, got: %s", output)
	}
	if !strings.Contains(output, " #1\n") {
		t.Errorf("expected unnamed timer label, got: %s", output)
	}
}

func TestFormatSnapshotEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, snapshot(0, sessionB, timerlog.SnapshotSave, 4, 1))
	output := buf.String()

	if !strings.Contains(output, "SNAPSHOT -\n") {
		t.Errorf("expected store-wide snapshot header, got: %s", output)
	}
	if !strings.Contains(output, "SAVE: 4 timers, 1 running, 120 bytes") {
		t.Errorf("expected snapshot details, got: %s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[8])
	output := buf.String()

	for _, want := range []string{"ERROR", "Component: store", "Message: disk full", "Context: save"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    timerlog.Category
		wantErr bool
	}{
		{"state", timerlog.CategoryState, false},
		{"SNAPSHOT", timerlog.CategorySnapshot, false},
		{"Error", timerlog.CategoryError, false},
		{"message", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategoryFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTimerFlag(t *testing.T) {
	if id, err := ParseTimerFlag("#7"); err != nil || id != 7 {
		t.Errorf("ParseTimerFlag(#7) = %d, %v", id, err)
	}
	if _, err := ParseTimerFlag("0"); err == nil {
		t.Error("expected error for timer 0")
	}
	if _, err := ParseTimerFlag("tea"); err == nil {
		t.Error("expected error for non-numeric timer")
	}
}

func TestRunViewFiltersByTimer(t *testing.T) {
	path := createTestLog(t, sampleEvents())

	id := 2
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{TimerID: &id}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	if got := strings.Count(output, `#2 "Eggs"`); got != 4 {
		t.Errorf("got %d Eggs events, want 4:\n%s", got, output)
	}
	if strings.Contains(output, "Tea") {
		t.Errorf("unexpected Tea event in output:\n%s", output)
	}
}

func TestRunViewFiltersBySessionAndCategory(t *testing.T) {
	path := createTestLog(t, sampleEvents())

	cat := timerlog.CategorySnapshot
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{SessionID: sessionB, Category: &cat}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	output := buf.String()

	if got := strings.Count(output, "SNAPSHOT"); got != 1 {
		t.Errorf("got %d snapshot events, want 1:\n%s", got, output)
	}
	if !strings.Contains(output, "LOAD: 2 timers") {
		t.Errorf("expected the session B load, got:\n%s", output)
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView("/nonexistent/file.tlog", ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}
