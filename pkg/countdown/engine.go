package countdown

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mtimer/mtimer-go/pkg/clock"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/registry"
	"github.com/mtimer/mtimer-go/pkg/timefmt"
	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// Engine constants.
const (
	// TickInterval is the period of the recurring countdown schedule.
	TickInterval = time.Second

	// DefaultLength is the length of new and reset timers in seconds.
	DefaultLength = 60

	// NamePrefix prefixes the id in the name of new timers.
	NamePrefix = "New Timer "
)

// Engine errors.
var (
	ErrTimerNotFound = errors.New("timer not found")
	ErrTimerRunning  = errors.New("timer is running")
)

// State represents the lifecycle state of a timer.
type State uint8

const (
	// StateIdle indicates a timer that is not counting down.
	StateIdle State = iota

	// StateRunning indicates a timer with an active tick schedule.
	StateRunning

	// StateFinished indicates a timer that counted down to zero.
	StateFinished
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Engine drives the countdown timers.
type Engine struct {
	reg   *registry.Registry
	pres  presenter.Presenter
	clock clock.Clock

	logger   *slog.Logger
	recorder *timerlog.Recorder
	colors   func() string

	// finished marks timers whose last transition was the finish tick.
	finished map[int]bool

	onSnapshot func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRecorder sets the timer event log recorder.
func WithRecorder(r *timerlog.Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithColorSource overrides the color generator used by Add.
func WithColorSource(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.colors = fn
		}
	}
}

// New creates an engine over the given registry, presenter and clock.
func New(reg *registry.Registry, pres presenter.Presenter, clk clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		reg:      reg,
		pres:     pres,
		clock:    clk,
		logger:   slog.Default(),
		colors:   RandomColor,
		finished: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RandomColor returns a random "#rrggbb" color.
func RandomColor() string {
	return fmt.Sprintf("#%02x%02x%02x", rand.IntN(256), rand.IntN(256), rand.IntN(256))
}

// OnSnapshot registers the function called after every user-visible mutation.
func (e *Engine) OnSnapshot(fn func()) {
	e.onSnapshot = fn
}

// Add creates a new idle timer with the default length and a random color.
// It returns the new timer's id.
func (e *Engine) Add() int {
	id := e.reg.NextID()
	name := fmt.Sprintf("%s%d", NamePrefix, id)

	e.pres.Render(id, name, DefaultLength, e.colors())
	e.reg.Add(id, DefaultLength)

	e.logger.Debug("timer added", "id", id, "name", name)
	e.recorder.State(id, name, "", StateIdle.String(), "add", DefaultLength)
	e.snapshot()
	return id
}

// Start begins counting down from the currently displayed remaining time.
// Starting a running timer restarts its schedule without losing time.
func (e *Engine) Start(id int) error {
	if err := e.arm(id, "start"); err != nil {
		return err
	}
	e.snapshot()
	return nil
}

// Restart arms the tick schedule like Start without triggering a snapshot.
// It is used when reconstructing running timers at load.
func (e *Engine) Restart(id int) error {
	return e.arm(id, "restore")
}

func (e *Engine) arm(id int, reason string) error {
	state := e.reg.Get(id)
	if state == nil {
		return fmt.Errorf("start %d: %w", id, ErrTimerNotFound)
	}
	old := e.state(id, state)

	if state.Schedule != nil {
		state.Schedule.Stop()
		state.Schedule = nil
	}

	timeLeft, err := timefmt.Parse(e.pres.DisplayText(id))
	if err != nil {
		timeLeft = state.TimeLeft
	}
	state.TimeLeft = timeLeft

	now := e.clock.Now()
	state.StartTime = &now
	delete(e.finished, id)

	e.pres.SetSettingsVisible(id, false)
	state.Schedule = e.clock.Every(TickInterval, func() { e.tick(id) })

	e.logger.Debug("timer started", "id", id, "time_left", timeLeft, "reason", reason)
	e.recorder.State(id, e.pres.Name(id), old.String(), StateRunning.String(), reason, timeLeft)
	return nil
}

func (e *Engine) tick(id int) {
	state := e.reg.Get(id)
	if !state.Running() {
		return
	}

	if state.TimeLeft > 0 {
		state.TimeLeft--
		e.pres.SetDisplayText(id, timefmt.Format(state.TimeLeft))
		return
	}

	e.finish(id, state)
}

func (e *Engine) finish(id int, state *registry.RuntimeState) {
	state.Schedule.Stop()
	state.Schedule = nil
	state.StartTime = nil
	e.finished[id] = true

	name := e.pres.Name(id)
	e.logger.Info("timer finished", "id", id, "name", name)
	e.recorder.State(id, name, StateRunning.String(), StateFinished.String(), "tick", 0)

	e.pres.NotifyFinished(id, name)
	e.pres.SetSettingsVisible(id, true)
	e.snapshot()
}

// Pause stops a running timer, keeping its remaining time.
// Pausing a timer that is not running does nothing.
func (e *Engine) Pause(id int) error {
	state := e.reg.Get(id)
	if state == nil {
		return fmt.Errorf("pause %d: %w", id, ErrTimerNotFound)
	}
	if !state.Running() {
		return nil
	}

	state.Schedule.Stop()
	state.Schedule = nil
	state.StartTime = nil

	e.pres.SetSettingsVisible(id, true)

	e.logger.Debug("timer paused", "id", id, "time_left", state.TimeLeft)
	e.recorder.State(id, e.pres.Name(id), StateRunning.String(), StateIdle.String(), "pause", state.TimeLeft)
	e.snapshot()
	return nil
}

// Reset stops the timer and restores the default one minute length.
func (e *Engine) Reset(id int) error {
	state := e.reg.Get(id)
	if state == nil {
		return fmt.Errorf("reset %d: %w", id, ErrTimerNotFound)
	}
	old := e.state(id, state)

	if state.Schedule != nil {
		state.Schedule.Stop()
		state.Schedule = nil
	}
	state.StartTime = nil
	state.TimeLeft = DefaultLength
	delete(e.finished, id)

	e.pres.SetDisplayText(id, timefmt.Format(DefaultLength))
	e.pres.SetLengthFields(id, timefmt.Split(DefaultLength))
	e.pres.SetSettingsVisible(id, true)

	e.logger.Debug("timer reset", "id", id)
	e.recorder.State(id, e.pres.Name(id), old.String(), StateIdle.String(), "reset", DefaultLength)
	e.snapshot()
	return nil
}

// SetLength sets the timer length from the raw hours, minutes and seconds
// inputs. Fields are parsed leniently and clamped to 0-23, 0-59 and 0-59.
// The clamped values are written back to the presenter.
func (e *Engine) SetLength(id int, hours, minutes, seconds string) (timefmt.Length, error) {
	state := e.reg.Get(id)
	if state == nil {
		return timefmt.Length{}, fmt.Errorf("set length %d: %w", id, ErrTimerNotFound)
	}
	if state.Running() {
		return timefmt.Length{}, fmt.Errorf("set length %d: %w", id, ErrTimerRunning)
	}
	old := e.state(id, state)

	length := timefmt.ClampLength(
		timefmt.ParseField(hours),
		timefmt.ParseField(minutes),
		timefmt.ParseField(seconds),
	)
	total := length.Total()

	e.pres.SetLengthFields(id, length)
	e.pres.SetDisplayText(id, timefmt.Format(total))
	state.TimeLeft = total
	delete(e.finished, id)

	e.logger.Debug("timer length set", "id", id, "seconds", total)
	e.recorder.State(id, e.pres.Name(id), old.String(), StateIdle.String(), "length", total)
	e.snapshot()
	return length, nil
}

// SetColor changes the header and control color. An empty color selects
// presenter.DefaultColor.
func (e *Engine) SetColor(id int, color string) error {
	if !e.reg.Has(id) {
		return fmt.Errorf("set color %d: %w", id, ErrTimerNotFound)
	}
	if color == "" {
		color = presenter.DefaultColor
	}

	e.pres.SetHeaderColor(id, color)
	e.pres.SetControlColor(id, color)

	e.logger.Debug("timer color set", "id", id, "color", color)
	e.snapshot()
	return nil
}

// SetName changes the displayed timer name.
func (e *Engine) SetName(id int, name string) error {
	if !e.reg.Has(id) {
		return fmt.Errorf("set name %d: %w", id, ErrTimerNotFound)
	}

	e.pres.SetName(id, name)

	e.logger.Debug("timer renamed", "id", id, "name", name)
	e.snapshot()
	return nil
}

// State returns the lifecycle state of a timer.
func (e *Engine) State(id int) (State, error) {
	state := e.reg.Get(id)
	if state == nil {
		return StateIdle, fmt.Errorf("state %d: %w", id, ErrTimerNotFound)
	}
	return e.state(id, state), nil
}

func (e *Engine) state(id int, state *registry.RuntimeState) State {
	switch {
	case state.Running():
		return StateRunning
	case e.finished[id]:
		return StateFinished
	default:
		return StateIdle
	}
}

// TimeLeft returns the remaining time of a timer in seconds.
func (e *Engine) TimeLeft(id int) (int, error) {
	state := e.reg.Get(id)
	if state == nil {
		return 0, fmt.Errorf("time left %d: %w", id, ErrTimerNotFound)
	}
	return state.TimeLeft, nil
}

func (e *Engine) snapshot() {
	if e.onSnapshot != nil {
		e.onSnapshot()
	}
}
