// Package registry holds the runtime state of every timer, keyed by timer id.
//
// The registry is plain storage: it has no behavior beyond get and set per id
// and the id counter. It is owned by whoever creates it (normally
// service.TimerService) and is only accessed from the event loop.
package registry

import (
	"sort"
	"time"

	"github.com/mtimer/mtimer-go/pkg/clock"
)

// FirstID is the id handed out by a fresh registry.
const FirstID = 1

// RuntimeState is the live state of one timer.
type RuntimeState struct {
	// TimeLeft is the remaining time in seconds.
	TimeLeft int

	// Schedule is the active tick schedule, nil unless running.
	Schedule clock.Handle

	// StartTime is when the timer last transitioned to running.
	StartTime *time.Time
}

// Running reports whether a tick schedule is active.
func (s *RuntimeState) Running() bool {
	return s != nil && s.Schedule != nil
}

// Registry maps timer ids to their runtime state.
type Registry struct {
	timers map[int]*RuntimeState
	nextID int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		timers: make(map[int]*RuntimeState),
		nextID: FirstID,
	}
}

// Get returns the state for id, or nil if unknown.
func (r *Registry) Get(id int) *RuntimeState {
	return r.timers[id]
}

// Set stores the state for id, replacing any previous entry.
func (r *Registry) Set(id int, state *RuntimeState) {
	r.timers[id] = state
}

// Add registers an idle timer with the given remaining time.
func (r *Registry) Add(id int, timeLeft int) *RuntimeState {
	state := &RuntimeState{TimeLeft: timeLeft}
	r.timers[id] = state
	r.EnsureAbove(id)
	return state
}

// Has reports whether id is registered.
func (r *Registry) Has(id int) bool {
	_, ok := r.timers[id]
	return ok
}

// IsRunning reports whether id has an active schedule.
func (r *Registry) IsRunning(id int) bool {
	return r.timers[id].Running()
}

// IDs returns all registered ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.timers))
	for id := range r.timers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of registered timers.
func (r *Registry) Len() int {
	return len(r.timers)
}

// NextID returns a fresh id and advances the counter.
func (r *Registry) NextID() int {
	id := r.nextID
	r.nextID++
	return id
}

// PeekID returns the id the next NextID call will hand out.
func (r *Registry) PeekID() int {
	return r.nextID
}

// EnsureAbove raises the counter so that it is strictly greater than id.
func (r *Registry) EnsureAbove(id int) {
	if id >= r.nextID {
		r.nextID = id + 1
	}
}
