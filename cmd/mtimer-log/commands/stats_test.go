package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

func TestCollectStats(t *testing.T) {
	path := createTestLog(t, sampleEvents())

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.TotalEvents != 11 {
		t.Errorf("TotalEvents = %d, want 11", stats.TotalEvents)
	}
	if stats.EventsByCategory[timerlog.CategoryState] != 7 {
		t.Errorf("state events = %d, want 7", stats.EventsByCategory[timerlog.CategoryState])
	}
	if stats.Saves != 1 || stats.Loads != 2 {
		t.Errorf("saves/loads = %d/%d, want 1/2", stats.Saves, stats.Loads)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if len(stats.Sessions) != 2 {
		t.Errorf("Sessions = %d, want 2", len(stats.Sessions))
	}
	if got := stats.Sessions[sessionB].Restored; got != 2 {
		t.Errorf("session B restored %d, want 2", got)
	}

	tea := stats.Timers[1]
	if tea == nil || tea.Name != "Tea" || tea.Starts != 1 || tea.Finishes != 1 {
		t.Errorf("tea stats = %+v", tea)
	}
	eggs := stats.Timers[2]
	if eggs == nil || eggs.Starts != 2 || eggs.Pauses != 1 || eggs.Finishes != 0 {
		t.Errorf("eggs stats = %+v", eggs)
	}
}

func TestRunStatsOutput(t *testing.T) {
	path := createTestLog(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 11",
		"Duration:   2m1s",
		"Snapshots: 1 saves, 2 loads",
		"Sessions: 2",
		"[aaaaaaaa]",
		"Timers: 2",
		"finishes=1",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRunStatsEmptyLog(t *testing.T) {
	path := createTestLog(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
