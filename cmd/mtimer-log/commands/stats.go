package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[timerlog.Category]int
	Sessions         map[string]*SessionStats
	Timers           map[int]*TimerStats
	Saves            int
	Loads            int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for one process run.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Restored  int
}

// TimerStats holds statistics for one timer.
type TimerStats struct {
	Name     string
	Starts   int
	Pauses   int
	Resets   int
	Finishes int
}

// CollectStats reads the whole log file.
func CollectStats(path string) (*Stats, error) {
	reader, err := timerlog.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[timerlog.Category]int),
		Sessions:         make(map[string]*SessionStats),
		Timers:           make(map[int]*TimerStats),
	}

	for event, err := range reader.Events() {
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event timerlog.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}

	switch {
	case event.Snapshot != nil:
		if event.Snapshot.Op == timerlog.SnapshotLoad {
			s.Loads++
			sess.Restored += event.Snapshot.Timers
		} else {
			s.Saves++
		}
	case event.Error != nil:
		s.Errors++
	case event.StateChange != nil && event.TimerID != 0:
		ts, ok := s.Timers[event.TimerID]
		if !ok {
			ts = &TimerStats{}
			s.Timers[event.TimerID] = ts
		}
		if event.TimerName != "" {
			ts.Name = event.TimerName
		}
		if event.StateChange.NewState == "FINISHED" {
			ts.Finishes++
			break
		}
		switch event.StateChange.Reason {
		case "start", "restore":
			ts.Starts++
		case "pause":
			ts.Pauses++
		case "reset":
			ts.Resets++
		}
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Timer Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []timerlog.Category{timerlog.CategoryState, timerlog.CategorySnapshot, timerlog.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintf(w, "Snapshots: %d saves, %d loads\n", stats.Saves, stats.Loads)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	type sessInfo struct {
		id    string
		stats *SessionStats
	}
	sessions := make([]sessInfo, 0, len(stats.Sessions))
	for id, ss := range stats.Sessions {
		sessions = append(sessions, sessInfo{id, ss})
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
	})
	for _, s := range sessions {
		duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Second)
		fmt.Fprintf(w, "  [%s] %d events, duration %s, restored %d\n",
			shortenSessionID(s.id), s.stats.Events, duration, s.stats.Restored)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Timers: %d\n", len(stats.Timers))
	ids := make([]int, 0, len(stats.Timers))
	for id := range stats.Timers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		ts := stats.Timers[id]
		fmt.Fprintf(w, "  #%-4d %-20s starts=%d pauses=%d resets=%d finishes=%d\n",
			id, ts.Name, ts.Starts, ts.Pauses, ts.Resets, ts.Finishes)
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
