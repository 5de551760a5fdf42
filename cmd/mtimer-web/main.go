// Command mtimer-web serves the timers over HTTP.
//
// It offers:
//   - REST API for listing and controlling timers
//   - Server-Sent Events stream of every display change and finish
//   - Optional mDNS advertisement so other instances can find it
//
// Usage:
//
//	mtimer-web [flags]
//
// Flags:
//
//	-config string      Configuration file path (default "~/.mtimer/config.yaml")
//	-listen string      HTTP listen address (default from config, ":8080")
//	-store string       Store driver: memory, file, sqlite, badger, leveldb
//	-store-path string  Store file or directory
//	-event-log string   Write the timer event log to this .tlog file
//	-log-level string   Log level: debug, info, warn, error
//	-log-format string  Log format: text, json
//	-advertise          Advertise the API over mDNS
//	-interface string   Network interface for mDNS
//	-instance string    mDNS instance name
//	-browse             List other mtimer-web instances and exit
//
// Examples:
//
//	# Serve on port 9000 with timers kept in badger
//	mtimer-web -listen :9000 -store badger -store-path ~/.mtimer/badger
//
//	# Find instances on the local network
//	mtimer-web -browse
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mtimer/mtimer-go/pkg/config"
	"github.com/mtimer/mtimer-go/pkg/discovery"
	"github.com/mtimer/mtimer-go/pkg/logging"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/service"
)

// Version information - set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "dev"
	GitCommit = "unknown"
)

var (
	configFile  = flag.String("config", filepath.Join("~", config.DefaultPath), "Configuration file path")
	listen      = flag.String("listen", "", "HTTP listen address")
	storeFlag   = flag.String("store", "", "Store driver: memory, file, sqlite, badger, leveldb")
	storePath   = flag.String("store-path", "", "Store file or directory")
	eventLog    = flag.String("event-log", "", "Write the timer event log to this .tlog file")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat   = flag.String("log-format", "", "Log format: text, json")
	advertise   = flag.Bool("advertise", false, "Advertise the API over mDNS")
	iface       = flag.String("interface", "", "Network interface for mDNS")
	instance    = flag.String("instance", "", "mDNS instance name")
	browse      = flag.Bool("browse", false, "List other mtimer-web instances and exit")
	showVersion = flag.Bool("version", false, "Show version information")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showVersion {
		fmt.Printf("mtimer-web %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Config{
		Format:    cfg.Log.Format,
		Level:     logging.ParseLevel(cfg.Log.Level),
		AddSource: cfg.Log.Level == "debug",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *browse {
		return runBrowse(ctx, cfg.Web.Interface)
	}

	pres := presenter.NewMemory()
	svc, err := service.Open(cfg, pres, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create timer service: %v\n", err)
		return 1
	}
	if err := svc.Start(ctx); err != nil {
		svc.Close()
		fmt.Fprintf(os.Stderr, "Error: failed to start timer service: %v\n", err)
		return 1
	}
	defer func() {
		if err := svc.Stop(); err != nil {
			logger.Error("error stopping timer service", "error", err)
		}
	}()

	ln, err := net.Listen("tcp", cfg.Web.Listen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to listen: %v\n", err)
		return 1
	}

	srv := NewServer(ServerConfig{Listen: cfg.Web.Listen, Version: Version}, svc, pres, logger)

	if cfg.Web.Advertise {
		adv := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{
			Interface: cfg.Web.Interface,
			TTL:       discovery.DefaultAdvertiserConfig().TTL,
		})
		ann := NewAnnouncer(adv, cfg.Web.Instance, ln.Addr().(*net.TCPAddr).Port, logger)
		if err := ann.Start(ctx, pres); err != nil {
			logger.Warn("mDNS advertisement failed", "error", err)
		} else {
			defer ann.Stop()
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("mtimer-web listening", "addr", ln.Addr().String(), "store", cfg.Store.Driver)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	return 0
}

func runBrowse(ctx context.Context, iface string) int {
	ctx, cancel := context.WithTimeout(ctx, discovery.BrowseTimeout)
	defer cancel()

	browser := &discovery.MDNSBrowser{Interface: iface}
	found := 0
	for svc := range browser.Browse(ctx) {
		found++
		note := ""
		if !svc.Compatible() {
			note = "  (incompatible)"
		}
		fmt.Printf("%-24s %s:%d%s  timers=%d  ver=%s  %v%s\n",
			svc.Instance, svc.Host, svc.Port, svc.Path, svc.Timers, svc.Version, svc.Addresses, note)
	}
	if found == 0 {
		fmt.Println("No instances found")
	}
	return 0
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}

	if *listen != "" {
		cfg.Web.Listen = *listen
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
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *advertise {
		cfg.Web.Advertise = true
	}
	if *iface != "" {
		cfg.Web.Interface = *iface
	}
	if *instance != "" {
		cfg.Web.Instance = *instance
	}
	return cfg, cfg.Validate()
}
