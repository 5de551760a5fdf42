package timerlog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes timer events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", shortID(event.SessionID)),
		slog.String("category", event.Category.String()),
	}

	if event.TimerID != 0 {
		attrs = append(attrs, slog.Int("timer", event.TimerID))
	}
	if event.TimerName != "" {
		attrs = append(attrs, slog.String("name", event.TimerName))
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
			slog.Int("time_left", event.StateChange.TimeLeft),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Snapshot != nil:
		attrs = append(attrs,
			slog.String("op", event.Snapshot.Op.String()),
			slog.Int("timers", event.Snapshot.Timers),
			slog.Int("running", event.Snapshot.Running),
			slog.Int("bytes", event.Snapshot.Bytes),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("component", event.Error.Component),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "timer", attrs...)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
