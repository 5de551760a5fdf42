package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mtimer/mtimer-go/pkg/config"
	"github.com/mtimer/mtimer-go/pkg/kvstore"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// Open builds a service from a configuration. The store and the event log
// it opens are closed by Stop, or by Close if the service never started.
func Open(cfg config.Config, pres presenter.Presenter, logger *slog.Logger) (*TimerService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.StorePath()
	if path != "" && cfg.Store.Driver != kvstore.DriverMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	store, err := kvstore.Open(cfg.Store.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	closers := []io.Closer{store}

	var eventLog timerlog.Logger
	if cfg.Log.EventLog != "" {
		fl, err := timerlog.NewFileLogger(config.ExpandHome(cfg.Log.EventLog))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("open event log: %w", err)
		}
		closers = append(closers, fl)
		eventLog = timerlog.Tee(fl, timerlog.NewSlogAdapter(logger))
	} else {
		eventLog = timerlog.NewSlogAdapter(logger)
	}

	svc, err := New(Config{
		Store:        store,
		Presenter:    pres,
		Logger:       logger,
		EventLog:     eventLog,
		SaveInterval: cfg.Persist.SaveInterval,
	})
	if err != nil {
		closeAll(closers, logger)
		return nil, err
	}
	svc.closers = closers

	logger.Debug("service configured",
		"driver", cfg.Store.Driver,
		"path", path,
		"event_log", cfg.Log.EventLog)
	return svc, nil
}

// Close releases resources opened by Open. It is a no-op while running.
func (s *TimerService) Close() error {
	if s.State() == StateRunning {
		return nil
	}
	closers := s.closers
	s.closers = nil
	return closeAll(closers, s.logger)
}

func closeAll(closers []io.Closer, logger *slog.Logger) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("close failed", "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
