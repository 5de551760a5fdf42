package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mtimer/mtimer-go/pkg/clock"
	"github.com/mtimer/mtimer-go/pkg/countdown"
	"github.com/mtimer/mtimer-go/pkg/loop"
	"github.com/mtimer/mtimer-go/pkg/persistence"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/registry"
	"github.com/mtimer/mtimer-go/pkg/timefmt"
	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// TimerService runs the timer core on its own event loop.
type TimerService struct {
	mu    sync.RWMutex
	state ServiceState

	logger *slog.Logger
	loop   *loop.Loop
	clock  clock.Clock
	pres   presenter.Presenter

	reg        *registry.Registry
	engine     *countdown.Engine
	reconciler *persistence.Reconciler
	recorder   *timerlog.Recorder

	cancel     context.CancelFunc
	saveHandle clock.Handle

	closers []io.Closer
}

// New creates a timer service. Nothing runs until Start.
func New(cfg Config) (*TimerService, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	if cfg.Presenter == nil {
		return nil, fmt.Errorf("%w: presenter is required", ErrInvalidConfig)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &TimerService{
		logger: cfg.Logger,
		loop:   loop.New(cfg.QueueSize),
		pres:   cfg.Presenter,
		reg:    registry.New(),
	}

	s.clock = cfg.Clock
	if s.clock == nil {
		s.clock = clock.New(s.loop)
	}

	s.recorder = timerlog.NewRecorder(cfg.EventLog, s.clock.Now)

	engineOpts := []countdown.Option{
		countdown.WithLogger(cfg.Logger),
		countdown.WithRecorder(s.recorder),
	}
	if cfg.ColorSource != nil {
		engineOpts = append(engineOpts, countdown.WithColorSource(cfg.ColorSource))
	}
	s.engine = countdown.New(s.reg, s.pres, s.clock, engineOpts...)

	s.reconciler = persistence.NewReconciler(cfg.Store, s.reg, s.engine, s.pres, s.clock,
		persistence.WithLogger(cfg.Logger),
		persistence.WithRecorder(s.recorder),
		persistence.WithSaveInterval(cfg.SaveInterval),
	)
	s.engine.OnSnapshot(s.reconciler.Save)

	return s, nil
}

// State returns the current service state.
func (s *TimerService) State() ServiceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the id stamped on this run's timer log events.
func (s *TimerService) SessionID() string {
	return s.recorder.SessionID()
}

// Start runs the event loop, restores persisted timers and starts the
// periodic save. It returns once the restore has finished.
func (s *TimerService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateStarting
	s.mu.Unlock()

	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop.Run(loopCtx)

	var restored int
	err := s.loop.Call(ctx, func() {
		restored = s.reconciler.Load()
		s.saveHandle = s.reconciler.Schedule()
	})
	if err != nil {
		cancel()
		<-s.loop.Done()
		s.setState(StateStopped)
		return fmt.Errorf("restore timers: %w", err)
	}

	s.logger.Info("timer service started",
		"timers", restored,
		"session", s.recorder.SessionID(),
		"save_interval", s.reconciler.SaveInterval())
	s.setState(StateRunning)
	return nil
}

// Stop takes a final snapshot, stops every schedule and shuts the loop down.
func (s *TimerService) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.state = StateStopping
	s.mu.Unlock()

	err := s.loop.Call(context.Background(), func() {
		if s.saveHandle != nil {
			s.saveHandle.Stop()
		}
		// Snapshot before stopping ticks so running timers stay marked running.
		if err := s.reconciler.SaveErr(); err != nil {
			s.logger.Warn("final save failed", "error", err)
		}
		for _, id := range s.reg.IDs() {
			if st := s.reg.Get(id); st.Running() {
				st.Schedule.Stop()
			}
		}
	})

	s.cancel()
	<-s.loop.Done()

	s.setState(StateStopped)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	s.logger.Info("timer service stopped")
	return err
}

func (s *TimerService) setState(state ServiceState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Do runs fn on the event loop and waits for it. fn may use the engine,
// registry and presenter freely.
func (s *TimerService) Do(ctx context.Context, fn func()) error {
	if s.State() != StateRunning {
		return ErrNotStarted
	}
	return s.loop.Call(ctx, fn)
}

// do runs fn on the loop and returns fn's error.
func (s *TimerService) do(ctx context.Context, fn func() error) error {
	var opErr error
	if err := s.Do(ctx, func() { opErr = fn() }); err != nil {
		return err
	}
	return opErr
}

// Add creates a new timer and returns its id.
func (s *TimerService) Add(ctx context.Context) (int, error) {
	var id int
	err := s.Do(ctx, func() { id = s.engine.Add() })
	return id, err
}

// StartTimer starts the countdown of a timer.
func (s *TimerService) StartTimer(ctx context.Context, id int) error {
	return s.do(ctx, func() error { return s.engine.Start(id) })
}

// Pause pauses a running timer.
func (s *TimerService) Pause(ctx context.Context, id int) error {
	return s.do(ctx, func() error { return s.engine.Pause(id) })
}

// Reset restores a timer to one minute.
func (s *TimerService) Reset(ctx context.Context, id int) error {
	return s.do(ctx, func() error { return s.engine.Reset(id) })
}

// SetLength sets a timer's length from raw field inputs and returns the
// clamped length.
func (s *TimerService) SetLength(ctx context.Context, id int, hours, minutes, seconds string) (timefmt.Length, error) {
	var length timefmt.Length
	err := s.do(ctx, func() error {
		var err error
		length, err = s.engine.SetLength(id, hours, minutes, seconds)
		return err
	})
	return length, err
}

// SetColor changes a timer's color.
func (s *TimerService) SetColor(ctx context.Context, id int, color string) error {
	return s.do(ctx, func() error { return s.engine.SetColor(id, color) })
}

// SetName renames a timer.
func (s *TimerService) SetName(ctx context.Context, id int, name string) error {
	return s.do(ctx, func() error { return s.engine.SetName(id, name) })
}

// Save writes a snapshot immediately.
func (s *TimerService) Save(ctx context.Context) error {
	return s.do(ctx, s.reconciler.SaveErr)
}

// Timers returns every timer in presentation order.
func (s *TimerService) Timers(ctx context.Context) ([]TimerInfo, error) {
	var infos []TimerInfo
	err := s.Do(ctx, func() {
		ids := s.pres.IDs()
		infos = make([]TimerInfo, 0, len(ids))
		for _, id := range ids {
			if info, err := s.info(id); err == nil {
				infos = append(infos, info)
			}
		}
	})
	return infos, err
}

// Timer returns one timer.
func (s *TimerService) Timer(ctx context.Context, id int) (TimerInfo, error) {
	var info TimerInfo
	err := s.do(ctx, func() error {
		var err error
		info, err = s.info(id)
		return err
	})
	return info, err
}

func (s *TimerService) info(id int) (TimerInfo, error) {
	st, err := s.engine.State(id)
	if err != nil {
		return TimerInfo{}, err
	}
	left, err := s.engine.TimeLeft(id)
	if err != nil {
		return TimerInfo{}, err
	}

	color := s.pres.Color(id)
	if color == "" {
		color = s.pres.HeaderColor(id)
	}
	return TimerInfo{
		ID:       id,
		Name:     s.pres.Name(id),
		Display:  s.pres.DisplayText(id),
		Color:    color,
		State:    st.String(),
		TimeLeft: left,
	}, nil
}
