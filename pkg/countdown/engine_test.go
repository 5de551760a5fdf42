package countdown

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtimer/mtimer-go/pkg/clock/clocktest"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/registry"
	"github.com/mtimer/mtimer-go/pkg/timefmt"
)

var epoch = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	reg       *registry.Registry
	pres      *presenter.Memory
	clock     *clocktest.Clock
	engine    *Engine
	snapshots int
	finished  []presenter.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		reg:   registry.New(),
		pres:  presenter.NewMemory(),
		clock: clocktest.New(epoch),
	}
	f.engine = New(f.reg, f.pres, f.clock, WithColorSource(func() string { return "#123456" }))
	f.engine.OnSnapshot(func() { f.snapshots++ })
	cancel := f.pres.Observe(func(ev presenter.Event) {
		if ev.Kind == presenter.EventFinished {
			f.finished = append(f.finished, ev)
		}
	})
	t.Cleanup(cancel)
	return f
}

func (f *fixture) display(t *testing.T, id int) string {
	t.Helper()
	v, ok := f.pres.View(id)
	require.True(t, ok, "timer %d not rendered", id)
	return v.Display
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StateRunning, "RUNNING"},
		{StateFinished, "FINISHED"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestAddRendersDefaults(t *testing.T) {
	f := newFixture(t)

	id1 := f.engine.Add()
	id2 := f.engine.Add()

	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)
	assert.Equal(t, 2, f.snapshots)

	v, ok := f.pres.View(id2)
	require.True(t, ok)
	assert.Equal(t, "New Timer 2", v.Name)
	assert.Equal(t, "01:00", v.Display)
	assert.Equal(t, "#123456", v.Color)
	assert.Equal(t, "#123456", v.HeaderColor)

	left, err := f.engine.TimeLeft(id2)
	require.NoError(t, err)
	assert.Equal(t, DefaultLength, left)

	st, err := f.engine.State(id2)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, st)
}

func TestStartTicksDown(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()

	require.NoError(t, f.engine.Start(id))

	st, _ := f.engine.State(id)
	assert.Equal(t, StateRunning, st)
	require.NotNil(t, f.reg.Get(id).StartTime)
	assert.True(t, epoch.Equal(*f.reg.Get(id).StartTime))

	v, _ := f.pres.View(id)
	assert.False(t, v.SettingsVisible)

	f.clock.Advance(5 * time.Second)

	assert.Equal(t, "00:55", f.display(t, id))
	left, _ := f.engine.TimeLeft(id)
	assert.Equal(t, 55, left)
}

func TestDoubleStartKeepsOneSchedule(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()

	require.NoError(t, f.engine.Start(id))
	require.NoError(t, f.engine.Start(id))
	assert.Equal(t, 1, f.clock.Active())

	f.clock.Advance(3 * time.Second)

	left, _ := f.engine.TimeLeft(id)
	assert.Equal(t, 57, left, "exactly one decrement per tick")
	assert.Equal(t, "00:57", f.display(t, id))
}

func TestStartReadsDisplay(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()

	f.pres.SetDisplayText(id, "02:30")
	require.NoError(t, f.engine.Start(id))

	left, _ := f.engine.TimeLeft(id)
	assert.Equal(t, 150, left)
}

func TestStartFallsBackOnUnparsableDisplay(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()

	f.pres.SetDisplayText(id, "garbage")
	require.NoError(t, f.engine.Start(id))

	left, _ := f.engine.TimeLeft(id)
	assert.Equal(t, DefaultLength, left)
}

func TestFinishNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()
	require.NoError(t, f.engine.SetName(id, "Tea"))
	_, err := f.engine.SetLength(id, "0", "0", "2")
	require.NoError(t, err)
	require.NoError(t, f.engine.Start(id))
	before := f.snapshots

	// Two decrements reach zero, the third tick finishes.
	f.clock.Advance(2 * time.Second)
	assert.Empty(t, f.finished)
	assert.Equal(t, "00:00", f.display(t, id))

	f.clock.Advance(time.Second)
	require.Len(t, f.finished, 1)
	assert.Equal(t, "Tea", f.finished[0].View.Name)
	assert.Equal(t, id, f.finished[0].ID)

	st, _ := f.engine.State(id)
	assert.Equal(t, StateFinished, st)
	assert.Nil(t, f.reg.Get(id).StartTime)
	assert.Equal(t, 0, f.clock.Active())
	assert.Equal(t, before+1, f.snapshots)

	v, _ := f.pres.View(id)
	assert.True(t, v.SettingsVisible)

	f.clock.Advance(10 * time.Second)
	assert.Len(t, f.finished, 1)
}

func TestPause(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()
	require.NoError(t, f.engine.Start(id))
	f.clock.Advance(10 * time.Second)

	require.NoError(t, f.engine.Pause(id))

	st, _ := f.engine.State(id)
	assert.Equal(t, StateIdle, st)
	assert.Nil(t, f.reg.Get(id).StartTime)
	assert.Equal(t, 0, f.clock.Active())

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, "00:50", f.display(t, id))

	// Resuming picks up where the display left off.
	require.NoError(t, f.engine.Start(id))
	f.clock.Advance(time.Second)
	assert.Equal(t, "00:49", f.display(t, id))
}

func TestPauseIdleIsNoop(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()
	before := f.snapshots

	require.NoError(t, f.engine.Pause(id))
	assert.Equal(t, before, f.snapshots)
}

func TestResetStopsTicking(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()
	_, err := f.engine.SetLength(id, "0", "5", "0")
	require.NoError(t, err)
	require.NoError(t, f.engine.Start(id))
	f.clock.Advance(3 * time.Second)

	require.NoError(t, f.engine.Reset(id))
	f.clock.Advance(5 * time.Second)

	assert.Equal(t, "01:00", f.display(t, id))
	left, _ := f.engine.TimeLeft(id)
	assert.Equal(t, DefaultLength, left)
	assert.Nil(t, f.reg.Get(id).StartTime)

	v, _ := f.pres.View(id)
	assert.Equal(t, timefmt.Length{Hours: 0, Minutes: 1, Seconds: 0}, v.Length)
	assert.True(t, v.SettingsVisible)
}

func TestResetAfterFinish(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()
	_, err := f.engine.SetLength(id, "0", "0", "0")
	require.NoError(t, err)
	require.NoError(t, f.engine.Start(id))
	f.clock.Advance(time.Second)

	st, _ := f.engine.State(id)
	require.Equal(t, StateFinished, st)

	require.NoError(t, f.engine.Reset(id))
	st, _ = f.engine.State(id)
	assert.Equal(t, StateIdle, st)
}

func TestSetLengthClamps(t *testing.T) {
	tests := []struct {
		name             string
		hours, min, secs string
		want             timefmt.Length
		display          string
	}{
		{"Plain", "0", "2", "30", timefmt.Length{Minutes: 2, Seconds: 30}, "02:30"},
		{"HoursClamped", "99", "0", "0", timefmt.Length{Hours: 23}, "1380:00"},
		{"Negative", "-4", "-1", "10", timefmt.Length{Seconds: 10}, "00:10"},
		{"NonNumeric", "abc", "x", "", timefmt.Length{}, "00:00"},
		{"LeadingDigits", "1h", "5m", "7s", timefmt.Length{Hours: 1, Minutes: 5, Seconds: 7}, "65:07"},
		{"MinutesClamped", "0", "75", "61", timefmt.Length{Minutes: 59, Seconds: 59}, "59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			id := f.engine.Add()

			got, err := f.engine.SetLength(id, tt.hours, tt.min, tt.secs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			v, _ := f.pres.View(id)
			assert.Equal(t, tt.want, v.Length, "clamped fields are written back")
			assert.Equal(t, tt.display, v.Display)

			left, _ := f.engine.TimeLeft(id)
			assert.Equal(t, tt.want.Total(), left)
		})
	}
}

func TestSetLengthWhileRunning(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()
	require.NoError(t, f.engine.Start(id))

	_, err := f.engine.SetLength(id, "0", "3", "0")
	assert.True(t, errors.Is(err, ErrTimerRunning))
	assert.Equal(t, "01:00", f.display(t, id))
}

func TestSetColor(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()

	require.NoError(t, f.engine.SetColor(id, "#ff0000"))
	v, _ := f.pres.View(id)
	assert.Equal(t, "#ff0000", v.Color)
	assert.Equal(t, "#ff0000", v.HeaderColor)

	require.NoError(t, f.engine.SetColor(id, ""))
	v, _ = f.pres.View(id)
	assert.Equal(t, presenter.DefaultColor, v.Color)
}

func TestSetNameTriggersSnapshot(t *testing.T) {
	f := newFixture(t)
	id := f.engine.Add()
	before := f.snapshots

	require.NoError(t, f.engine.SetName(id, "Eggs"))
	assert.Equal(t, "Eggs", f.pres.Name(id))
	assert.Equal(t, before+1, f.snapshots)
}

func TestRestartSkipsSnapshot(t *testing.T) {
	f := newFixture(t)
	f.pres.Render(7, "Restored", 30, "#000000")
	f.reg.Add(7, 30)

	require.NoError(t, f.engine.Restart(7))
	assert.Equal(t, 0, f.snapshots)

	f.clock.Advance(time.Second)
	assert.Equal(t, "00:29", f.display(t, 7))
}

func TestUnknownTimer(t *testing.T) {
	f := newFixture(t)

	checks := map[string]error{
		"Start":    f.engine.Start(42),
		"Restart":  f.engine.Restart(42),
		"Pause":    f.engine.Pause(42),
		"Reset":    f.engine.Reset(42),
		"SetColor": f.engine.SetColor(42, "#fff"),
		"SetName":  f.engine.SetName(42, "x"),
	}
	_, checks["SetLength"] = f.engine.SetLength(42, "1", "0", "0")
	_, checks["State"] = f.engine.State(42)
	_, checks["TimeLeft"] = f.engine.TimeLeft(42)

	for name, err := range checks {
		if !errors.Is(err, ErrTimerNotFound) {
			t.Errorf("%s(42) error = %v, want ErrTimerNotFound", name, err)
		}
	}
	assert.Equal(t, 0, f.snapshots)
}

func TestRandomColorFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := RandomColor()
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c)
	}
}
