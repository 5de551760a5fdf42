package timerlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileLogger appends events to a .tlog file. Each event is encoded in full
// before it is written, so a failed encode never leaves a partial item.
// It is safe for concurrent use.
type FileLogger struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	failed int
	closed bool
}

// NewFileLogger opens path for appending, creating it and its directory.
func NewFileLogger(path string) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{path: path, file: f}, nil
}

// Log appends the event. Events that cannot be encoded or written are
// counted and reported by Close; they never reach the timers.
func (l *FileLogger) Log(event Event) {
	data, err := EncodeEvent(event)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err == nil {
		_, err = l.file.Write(data)
	}
	if err != nil {
		l.failed++
	}
}

// Failed returns the number of events that were not written.
func (l *FileLogger) Failed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failed
}

// Close closes the file. Later Log calls are dropped without counting.
// The returned error includes the number of events that were lost.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	err := l.file.Close()
	if l.failed > 0 {
		err = errors.Join(err, fmt.Errorf("timer log %s: %d events not written", l.path, l.failed))
	}
	return err
}

var _ Logger = (*FileLogger)(nil)
