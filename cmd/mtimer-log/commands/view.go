// Package commands implements the mtimer-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mtimer/mtimer-go/pkg/timefmt"
	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// timestampLayout is used by view and export.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	SessionID string
	TimerID   *int
	Category  *timerlog.Category
	State     string
}

func (f ViewFilter) toFilter() timerlog.Filter {
	return timerlog.Filter{
		SessionID: f.SessionID,
		TimerID:   f.TimerID,
		Category:  f.Category,
		NewState:  strings.ToUpper(f.State),
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event timerlog.Event) {
	// Header line: timestamp [session] CATEGORY timer
	ts := event.Timestamp.UTC().Format(timestampLayout)
	fmt.Fprintf(w, "%s [%s] %-8s %s\n", ts, shortenSessionID(event.SessionID),
		event.Category.String(), timerLabel(event))

	switch {
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Snapshot != nil:
		formatSnapshotDetails(w, event.Snapshot)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func timerLabel(event timerlog.Event) string {
	if event.TimerID == 0 {
		return "-"
	}
	if event.TimerName != "" {
		return fmt.Sprintf("#%d %q", event.TimerID, event.TimerName)
	}
	return fmt.Sprintf("#%d", event.TimerID)
}

func formatStateChangeDetails(w io.Writer, sc *timerlog.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
	fmt.Fprintf(w, "  Left: %s\n", timefmt.Format(sc.TimeLeft))
}

func formatSnapshotDetails(w io.Writer, snap *timerlog.SnapshotEvent) {
	fmt.Fprintf(w, "  %s: %d timers, %d running", snap.Op.String(), snap.Timers, snap.Running)
	if snap.Bytes > 0 {
		fmt.Fprintf(w, ", %d bytes", snap.Bytes)
	}
	fmt.Fprintln(w)
}

func formatErrorDetails(w io.Writer, err *timerlog.ErrorEventData) {
	fmt.Fprintf(w, "  Component: %s\n", err.Component)
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (timerlog.Category, error) {
	switch strings.ToLower(s) {
	case "state":
		return timerlog.CategoryState, nil
	case "snapshot":
		return timerlog.CategorySnapshot, nil
	case "error":
		return timerlog.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be state, snapshot, or error)", s)
	}
}

// ParseTimerFlag parses a positive timer id.
func ParseTimerFlag(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid timer id: %s", s)
	}
	return id, nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := timerlog.NewFilteredReader(path, filter.toFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
