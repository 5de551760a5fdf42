// Command mtimer is an interactive multi-timer for the terminal.
//
// Timers count down in one-second steps and survive restarts: every change
// is saved to the configured store, and timers that were running when mtimer
// exited resume with the elapsed time subtracted.
//
// Usage:
//
//	mtimer [flags]
//
// Flags:
//
//	-config string      Configuration file path (default "~/.mtimer/config.yaml")
//	-store string       Store driver: memory, file, sqlite, badger, leveldb
//	-store-path string  Store file or directory
//	-event-log string   Write the timer event log to this .tlog file
//	-log-level string   Log level: debug, info, warn, error
//
// Examples:
//
//	# Keep timers in the default JSON file
//	mtimer
//
//	# Keep timers in SQLite and record an event log
//	mtimer -store sqlite -store-path ~/.mtimer/timers.db -event-log ~/.mtimer/events.tlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mtimer/mtimer-go/cmd/mtimer/interactive"
	"github.com/mtimer/mtimer-go/pkg/config"
	"github.com/mtimer/mtimer-go/pkg/logging"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/service"
)

var (
	configFile = flag.String("config", filepath.Join("~", config.DefaultPath), "Configuration file path")
	storeFlag  = flag.String("store", "", "Store driver: memory, file, sqlite, badger, leveldb")
	storePath  = flag.String("store-path", "", "Store file or directory")
	eventLog   = flag.String("event-log", "", "Write the timer event log to this .tlog file")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	pres := presenter.NewMemory()
	shell, err := interactive.New(nil, pres)
	if err != nil {
		log.Fatalf("Failed to start shell: %v", err)
	}

	// Log through readline so messages don't garble the prompt.
	logger := logging.New(logging.Config{
		Writer: shell.Stderr(),
		Format: cfg.Log.Format,
		Level:  logging.ParseLevel(cfg.Log.Level),
	})

	svc, err := service.Open(cfg, pres, logger)
	if err != nil {
		log.Fatalf("Failed to create timer service: %v", err)
	}
	shell.SetService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.Start(ctx); err != nil {
		svc.Close()
		log.Fatalf("Failed to start service: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(shell.Stdout(), "Received signal: %v\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	shell.Run(ctx, cancel)

	if err := svc.Stop(); err != nil {
		log.Printf("Error stopping service: %v", err)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}

	if *storeFlag != "" {
		cfg.Store.Driver = *storeFlag
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *eventLog != "" {
		cfg.Log.EventLog = *eventLog
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	return cfg, cfg.Validate()
}
