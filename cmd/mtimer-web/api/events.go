package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mtimer/mtimer-go/pkg/presenter"
)

// clientBuffer is the number of events queued per stream client before
// further events are dropped for it.
const clientBuffer = 64

// Hub fans presenter events out to event-stream clients.
type Hub struct {
	pres   *presenter.Memory
	logger *slog.Logger

	mu      sync.Mutex
	clients map[chan presenter.Event]struct{}
	dropped uint64

	unobserve func()
}

// NewHub creates a hub observing pres. Close detaches it.
func NewHub(pres *presenter.Memory, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		pres:    pres,
		logger:  logger,
		clients: make(map[chan presenter.Event]struct{}),
	}
	h.unobserve = pres.Observe(h.publish)
	return h
}

// publish runs on the timer loop and never blocks.
func (h *Hub) publish(ev presenter.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.dropped++
		}
	}
}

// Dropped returns the number of events dropped for slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Clients returns the number of connected stream clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) subscribe() chan presenter.Event {
	ch := make(chan presenter.Event, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan presenter.Event) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// Close detaches the hub from the presenter.
func (h *Hub) Close() {
	h.unobserve()
}

// ServeHTTP handles GET /events (Server-Sent Events). The current view of
// every timer is sent first as "rendered" events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	for _, view := range h.pres.Views() {
		writeEvent(w, presenter.EventRendered.String(), view)
	}
	flusher.Flush()

	h.logger.Debug("event stream opened", "remote", r.RemoteAddr)
	for {
		select {
		case ev := <-ch:
			writeEvent(w, ev.Kind.String(), ev.View)
			flusher.Flush()
		case <-r.Context().Done():
			h.logger.Debug("event stream closed", "remote", r.RemoteAddr)
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, kind string, view presenter.View) {
	data, _ := json.Marshal(view)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", kind, data)
}
