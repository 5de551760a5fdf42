package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mtimer/mtimer-go/pkg/clock"
	"github.com/mtimer/mtimer-go/pkg/kvstore"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrAlreadyStarted = errors.New("service already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServiceState represents the service state.
type ServiceState uint8

const (
	// StateIdle - service created but not started.
	StateIdle ServiceState = iota

	// StateStarting - service is loading persisted timers.
	StateStarting

	// StateRunning - service is running normally.
	StateRunning

	// StateStopping - service is taking its final snapshot.
	StateStopping

	// StateStopped - service has stopped.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Config configures a TimerService.
type Config struct {
	// Store receives the snapshots. Required.
	Store kvstore.Store

	// Presenter renders the timers. Required.
	Presenter presenter.Presenter

	// Clock overrides the system clock. The default system clock delivers
	// ticks through the service's event loop.
	Clock clock.Clock

	// Logger is the operational logger. Default: slog.Default().
	Logger *slog.Logger

	// EventLog receives timer lifecycle events. Default: discarded.
	EventLog timerlog.Logger

	// SaveInterval is the period of the background save.
	// Default: persistence.DefaultSaveInterval.
	SaveInterval time.Duration

	// QueueSize is the event loop buffer. Default: loop.DefaultBuffer.
	QueueSize int

	// ColorSource overrides the random color of new timers.
	ColorSource func() string
}

// TimerInfo is a read-only view of one timer.
type TimerInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Display  string `json:"display"`
	Color    string `json:"color"`
	State    string `json:"state"`
	TimeLeft int    `json:"timeLeft"`
}
