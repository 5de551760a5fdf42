package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mtimer/mtimer-go/cmd/mtimer-web/api"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/service"
	"github.com/mtimer/mtimer-go/pkg/version"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Listen  string
	Version string
}

// Server is the HTTP server of mtimer-web.
type Server struct {
	config ServerConfig
	router *chi.Mux
	server *http.Server
	logger *slog.Logger

	svc    *service.TimerService
	timers *api.TimersAPI
	hub    *api.Hub

	// base is the parent of every request context; cancelling it ends
	// open event streams on shutdown.
	base       context.Context
	cancelBase context.CancelFunc
}

// NewServer creates a server exposing svc. pres must be the presenter svc
// renders through.
func NewServer(cfg ServerConfig, svc *service.TimerService, pres *presenter.Memory, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		svc:    svc,
		timers: api.NewTimersAPI(svc, logger),
		hub:    api.NewHub(pres, logger),
	}

	s.base, s.cancelBase = context.WithCancel(context.Background())

	s.setupMiddleware()
	s.registerRoutes()

	s.server = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.base },
	}
	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.router.Route(version.PathPrefix(version.MustCurrent().Major), func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Route("/timers", s.timers.Routes)
		r.Get("/events", s.hub.ServeHTTP)
	})
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	build := s.config.Version
	if build == "" {
		build = "dev"
	}

	status := "ok"
	code := http.StatusOK
	if s.svc.State() != service.StateRunning {
		status = s.svc.State().String()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  status,
		"version": build,
		"api":     version.Current,
		"session": s.svc.SessionID(),
	})
}

// ServeHTTP makes the server usable as a handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	err := s.server.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully and detaches the event hub.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.hub.Close()
	s.cancelBase()
	return s.server.Shutdown(ctx)
}
