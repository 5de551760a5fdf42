package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtimer/mtimer-go/pkg/timefmt"
)

func TestMemoryRender(t *testing.T) {
	m := NewMemory()
	m.Render(1, "Tea", 3725, "#ff0000")

	v, ok := m.View(1)
	require.True(t, ok)
	assert.Equal(t, "Tea", v.Name)
	assert.Equal(t, "62:05", v.Display)
	assert.Equal(t, "#ff0000", v.Color)
	assert.Equal(t, "#ff0000", v.HeaderColor)
	assert.True(t, v.SettingsVisible)
	assert.Equal(t, timefmt.Length{Hours: 1, Minutes: 2, Seconds: 5}, v.Length)
}

func TestMemoryRenderOrder(t *testing.T) {
	m := NewMemory()
	m.Render(3, "c", 1, "")
	m.Render(1, "a", 1, "")
	m.Render(3, "c2", 1, "")

	assert.Equal(t, []int{3, 1}, m.IDs())
	assert.Equal(t, "c2", m.Name(3))

	views := m.Views()
	require.Len(t, views, 2)
	assert.Equal(t, 3, views[0].ID)
	assert.Equal(t, 1, views[1].ID)
}

func TestMemorySetters(t *testing.T) {
	m := NewMemory()
	m.Render(1, "x", 60, "red")

	m.SetDisplayText(1, "00:59")
	m.SetName(1, "y")
	m.SetHeaderColor(1, "blue")
	m.SetControlColor(1, "green")
	m.SetSettingsVisible(1, false)
	m.SetLengthFields(1, timefmt.Length{Minutes: 1})

	assert.Equal(t, "00:59", m.DisplayText(1))
	assert.Equal(t, "y", m.Name(1))
	assert.Equal(t, "blue", m.HeaderColor(1))
	assert.Equal(t, "green", m.Color(1))

	v, _ := m.View(1)
	assert.False(t, v.SettingsVisible)
	assert.Equal(t, timefmt.Length{Minutes: 1}, v.Length)
}

func TestMemoryUnknownID(t *testing.T) {
	m := NewMemory()

	var events []Event
	m.Observe(func(e Event) { events = append(events, e) })

	m.SetDisplayText(9, "01:00")
	m.SetName(9, "ghost")

	assert.Empty(t, events)
	assert.Equal(t, "", m.DisplayText(9))
	assert.Equal(t, "", m.Name(9))
	assert.Equal(t, "", m.Color(9))
	assert.Equal(t, "", m.HeaderColor(9))
	_, ok := m.View(9)
	assert.False(t, ok)
}

func TestMemoryObserve(t *testing.T) {
	m := NewMemory()

	var kinds []EventKind
	cancel := m.Observe(func(e Event) { kinds = append(kinds, e.Kind) })

	m.Render(1, "x", 10, "")
	m.SetDisplayText(1, "00:09")
	m.NotifyFinished(1, "x")

	assert.Equal(t, []EventKind{EventRendered, EventDisplay, EventFinished}, kinds)

	cancel()
	m.SetDisplayText(1, "00:08")
	assert.Len(t, kinds, 3)
}

func TestMemoryNotifyFinishedCarriesName(t *testing.T) {
	m := NewMemory()
	m.Render(2, "Laundry", 0, "")

	var got Event
	m.Observe(func(e Event) { got = e })
	m.NotifyFinished(2, "Laundry")

	assert.Equal(t, EventFinished, got.Kind)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, "Laundry", got.View.Name)
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventRendered, "rendered"},
		{EventDisplay, "display"},
		{EventFinished, "finished"},
		{EventKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
