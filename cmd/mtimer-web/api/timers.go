package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mtimer/mtimer-go/pkg/service"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 10

// TimersAPI serves the timer endpoints.
type TimersAPI struct {
	svc      *service.TimerService
	validate *Validator
	logger   *slog.Logger
}

// NewTimersAPI creates the timer endpoints for svc.
func NewTimersAPI(svc *service.TimerService, logger *slog.Logger) *TimersAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimersAPI{
		svc:      svc,
		validate: NewValidator(),
		logger:   logger,
	}
}

// Routes registers the endpoints on r.
func (a *TimersAPI) Routes(r chi.Router) {
	r.Get("/", a.handleList)
	r.Post("/", a.handleAdd)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", a.handleGet)
		r.Post("/start", a.handleStart)
		r.Post("/pause", a.handlePause)
		r.Post("/reset", a.handleReset)
		r.Put("/length", a.handleLength)
		r.Put("/color", a.handleColor)
		r.Put("/name", a.handleName)
	})
}

// handleList handles GET /timers.
func (a *TimersAPI) handleList(w http.ResponseWriter, r *http.Request) {
	timers, err := a.svc.Timers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TimersResponse{Timers: timers})
}

// handleAdd handles POST /timers.
func (a *TimersAPI) handleAdd(w http.ResponseWriter, r *http.Request) {
	id, err := a.svc.Add(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	a.logger.Info("timer added", "id", id)

	w.Header().Set("Location", fmt.Sprintf("%s/%d", strings.TrimSuffix(r.URL.Path, "/"), id))
	a.respondTimer(w, r, http.StatusCreated, id)
}

// handleGet handles GET /timers/{id}.
func (a *TimersAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := timerID(w, r)
	if !ok {
		return
	}
	a.respondTimer(w, r, http.StatusOK, id)
}

func (a *TimersAPI) handleStart(w http.ResponseWriter, r *http.Request) {
	a.action(w, r, a.svc.StartTimer)
}

func (a *TimersAPI) handlePause(w http.ResponseWriter, r *http.Request) {
	a.action(w, r, a.svc.Pause)
}

func (a *TimersAPI) handleReset(w http.ResponseWriter, r *http.Request) {
	a.action(w, r, a.svc.Reset)
}

// handleLength handles PUT /timers/{id}/length.
func (a *TimersAPI) handleLength(w http.ResponseWriter, r *http.Request) {
	id, ok := timerID(w, r)
	if !ok {
		return
	}
	var req LengthRequest
	if !a.decode(w, r, &req) {
		return
	}

	length, err := a.svc.SetLength(r.Context(), id, string(req.Hours), string(req.Minutes), string(req.Seconds))
	if err != nil {
		writeError(w, err)
		return
	}
	info, err := a.svc.Timer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LengthResponse{Timer: info, Length: length})
}

// handleColor handles PUT /timers/{id}/color.
func (a *TimersAPI) handleColor(w http.ResponseWriter, r *http.Request) {
	id, ok := timerID(w, r)
	if !ok {
		return
	}
	var req ColorRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.svc.SetColor(r.Context(), id, req.Color); err != nil {
		writeError(w, err)
		return
	}
	a.respondTimer(w, r, http.StatusOK, id)
}

// handleName handles PUT /timers/{id}/name.
func (a *TimersAPI) handleName(w http.ResponseWriter, r *http.Request) {
	id, ok := timerID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.svc.SetName(r.Context(), id, req.Name); err != nil {
		writeError(w, err)
		return
	}
	a.respondTimer(w, r, http.StatusOK, id)
}

// action runs a body-less timer operation and responds with the timer.
func (a *TimersAPI) action(w http.ResponseWriter, r *http.Request, fn func(context.Context, int) error) {
	id, ok := timerID(w, r)
	if !ok {
		return
	}
	if err := fn(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	a.respondTimer(w, r, http.StatusOK, id)
}

func (a *TimersAPI) respondTimer(w http.ResponseWriter, r *http.Request, status int, id int) {
	info, err := a.svc.Timer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, info)
}

// decode reads and validates a JSON body. On failure it writes the response.
func (a *TimersAPI) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return false
	}
	if err := a.validate.Validate(dst); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

func timerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		writeJSONError(w, http.StatusBadRequest, "Invalid timer id", raw)
		return 0, false
	}
	return id, true
}
