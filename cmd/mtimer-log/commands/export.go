package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := timerlog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *timerlog.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *timerlog.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "category", "timer_id", "timer_name", "detail", "time_left"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		detail, timeLeft := "", ""
		switch {
		case event.StateChange != nil:
			detail = event.StateChange.OldState + "->" + event.StateChange.NewState
			if event.StateChange.Reason != "" {
				detail += " (" + event.StateChange.Reason + ")"
			}
			timeLeft = strconv.Itoa(event.StateChange.TimeLeft)
		case event.Snapshot != nil:
			detail = fmt.Sprintf("%s %d/%d", event.Snapshot.Op, event.Snapshot.Running, event.Snapshot.Timers)
		case event.Error != nil:
			detail = event.Error.Component + ": " + event.Error.Message
		}

		timerID := ""
		if event.TimerID != 0 {
			timerID = strconv.Itoa(event.TimerID)
		}

		row := []string{
			event.Timestamp.UTC().Format(timestampLayout),
			event.SessionID,
			event.Category.String(),
			timerID,
			event.TimerName,
			detail,
			timeLeft,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
