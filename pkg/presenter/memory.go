package presenter

import (
	"sync"

	"github.com/mtimer/mtimer-go/pkg/timefmt"
)

// EventKind identifies what changed in a Memory presenter.
type EventKind uint8

const (
	// EventRendered indicates a timer was rendered.
	EventRendered EventKind = iota + 1
	// EventDisplay indicates the display text changed.
	EventDisplay
	// EventName indicates the name changed.
	EventName
	// EventColor indicates the header or control color changed.
	EventColor
	// EventSettings indicates the settings visibility changed.
	EventSettings
	// EventLength indicates the length fields changed.
	EventLength
	// EventFinished indicates a timer finished.
	EventFinished
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventRendered:
		return "rendered"
	case EventDisplay:
		return "display"
	case EventName:
		return "name"
	case EventColor:
		return "color"
	case EventSettings:
		return "settings"
	case EventLength:
		return "length"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// View is the presentation state of one timer.
type View struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	Display         string         `json:"display"`
	Color           string         `json:"color"`
	HeaderColor     string         `json:"headerColor"`
	SettingsVisible bool           `json:"settingsVisible"`
	Length          timefmt.Length `json:"length"`
}

// Event describes a change to a Memory presenter.
type Event struct {
	Kind EventKind
	ID   int
	View View
}

// Memory is a headless Presenter that keeps view state in memory and
// publishes every change to its observers.
// Views may be read from any goroutine.
type Memory struct {
	mu    sync.RWMutex
	order []int
	views map[int]*View

	obsMu     sync.RWMutex
	observers map[uint64]func(Event)
	obsSeq    uint64
}

// NewMemory creates an empty Memory presenter.
func NewMemory() *Memory {
	return &Memory{
		views:     make(map[int]*View),
		observers: make(map[uint64]func(Event)),
	}
}

// Observe registers fn to receive every event. The returned function removes it.
// Observers run synchronously on the mutating goroutine and must not block.
func (m *Memory) Observe(fn func(Event)) (cancel func()) {
	m.obsMu.Lock()
	m.obsSeq++
	key := m.obsSeq
	m.observers[key] = fn
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, key)
		m.obsMu.Unlock()
	}
}

func (m *Memory) publish(kind EventKind, view View) {
	m.obsMu.RLock()
	fns := make([]func(Event), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	m.obsMu.RUnlock()

	ev := Event{Kind: kind, ID: view.ID, View: view}
	for _, fn := range fns {
		fn(ev)
	}
}

// update applies fn to the view for id and publishes kind.
// Unknown ids are ignored.
func (m *Memory) update(id int, kind EventKind, fn func(v *View)) {
	m.mu.Lock()
	v, ok := m.views[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	fn(v)
	snapshot := *v
	m.mu.Unlock()

	m.publish(kind, snapshot)
}

// Render creates the view for a timer. Rendering an existing id replaces its view.
func (m *Memory) Render(id int, name string, timeLeft int, color string) {
	v := &View{
		ID:              id,
		Name:            name,
		Display:         timefmt.Format(timeLeft),
		Color:           color,
		HeaderColor:     color,
		SettingsVisible: true,
		Length:          timefmt.Split(timeLeft),
	}

	m.mu.Lock()
	if _, exists := m.views[id]; !exists {
		m.order = append(m.order, id)
	}
	m.views[id] = v
	snapshot := *v
	m.mu.Unlock()

	m.publish(EventRendered, snapshot)
}

// IDs returns rendered ids in render order.
func (m *Memory) IDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int, len(m.order))
	copy(ids, m.order)
	return ids
}

// View returns a copy of the view for id.
func (m *Memory) View(id int) (View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.views[id]
	if !ok {
		return View{}, false
	}
	return *v, true
}

// Views returns copies of all views in render order.
func (m *Memory) Views() []View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	views := make([]View, 0, len(m.order))
	for _, id := range m.order {
		views = append(views, *m.views[id])
	}
	return views
}

// DisplayText returns the display text, or "" for unknown ids.
func (m *Memory) DisplayText(id int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.views[id]; ok {
		return v.Display
	}
	return ""
}

// SetDisplayText replaces the display text.
func (m *Memory) SetDisplayText(id int, text string) {
	m.update(id, EventDisplay, func(v *View) { v.Display = text })
}

// Name returns the timer name.
func (m *Memory) Name(id int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.views[id]; ok {
		return v.Name
	}
	return ""
}

// SetName replaces the timer name.
func (m *Memory) SetName(id int, name string) {
	m.update(id, EventName, func(v *View) { v.Name = name })
}

// Color returns the color control value.
func (m *Memory) Color(id int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.views[id]; ok {
		return v.Color
	}
	return ""
}

// HeaderColor returns the header color.
func (m *Memory) HeaderColor(id int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.views[id]; ok {
		return v.HeaderColor
	}
	return ""
}

// SetHeaderColor sets the header color.
func (m *Memory) SetHeaderColor(id int, color string) {
	m.update(id, EventColor, func(v *View) { v.HeaderColor = color })
}

// SetControlColor sets the color control value.
func (m *Memory) SetControlColor(id int, color string) {
	m.update(id, EventColor, func(v *View) { v.Color = color })
}

// SetSettingsVisible shows or hides the settings.
func (m *Memory) SetSettingsVisible(id int, visible bool) {
	m.update(id, EventSettings, func(v *View) { v.SettingsVisible = visible })
}

// SetLengthFields writes the length inputs.
func (m *Memory) SetLengthFields(id int, length timefmt.Length) {
	m.update(id, EventLength, func(v *View) { v.Length = length })
}

// NotifyFinished publishes EventFinished. Observers choose how to surface it.
func (m *Memory) NotifyFinished(id int, name string) {
	view, ok := m.View(id)
	if !ok {
		view = View{ID: id}
	}
	view.Name = name
	m.publish(EventFinished, view)
}

// Compile-time interface satisfaction check.
var _ Presenter = (*Memory)(nil)
