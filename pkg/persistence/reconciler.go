package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtimer/mtimer-go/pkg/clock"
	"github.com/mtimer/mtimer-go/pkg/kvstore"
	"github.com/mtimer/mtimer-go/pkg/presenter"
	"github.com/mtimer/mtimer-go/pkg/registry"
	"github.com/mtimer/mtimer-go/pkg/timefmt"
	"github.com/mtimer/mtimer-go/pkg/timerlog"
)

// DefaultSaveInterval is the period of the unconditional background save.
const DefaultSaveInterval = 10 * time.Second

// Restarter resumes a running timer without triggering a snapshot.
// countdown.Engine implements it.
type Restarter interface {
	Restart(id int) error
}

// Reconciler saves and restores timer snapshots.
// Like the engine it must only be used from the event loop goroutine.
type Reconciler struct {
	store   kvstore.Store
	reg     *registry.Registry
	engine  Restarter
	pres    presenter.Presenter
	clock   clock.Clock
	logger  *slog.Logger
	rec     *timerlog.Recorder
	every   time.Duration
	loading bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the timer event log recorder.
func WithRecorder(rec *timerlog.Recorder) Option {
	return func(r *Reconciler) {
		r.rec = rec
	}
}

// WithSaveInterval overrides DefaultSaveInterval. Non-positive values are ignored.
func WithSaveInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.every = d
		}
	}
}

// NewReconciler creates a reconciler.
func NewReconciler(store kvstore.Store, reg *registry.Registry, engine Restarter, pres presenter.Presenter, clk clock.Clock, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:  store,
		reg:    reg,
		engine: engine,
		pres:   pres,
		clock:  clk,
		logger: slog.Default(),
		every:  DefaultSaveInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SaveInterval returns the period used by Schedule and Run.
func (r *Reconciler) SaveInterval() time.Duration {
	return r.every
}

// Save writes a snapshot of every presented timer. Failures are logged and
// otherwise ignored.
func (r *Reconciler) Save() {
	_ = r.SaveErr()
}

// SaveErr writes a snapshot and returns the storage error, if any.
// Saves requested while Load is running are skipped.
func (r *Reconciler) SaveErr() error {
	if r.loading {
		return nil
	}

	records := r.Snapshot()
	data, err := EncodeRecords(records)
	if err != nil {
		return r.saveFailed(err)
	}

	if err := r.store.Set(StorageKey, string(data)); err != nil {
		return r.saveFailed(err)
	}

	running := 0
	for _, rec := range records {
		if rec.IsRunning {
			running++
		}
	}
	r.logger.Debug("timers saved", "count", len(records), "running", running)
	r.rec.Snapshot(timerlog.SnapshotSave, len(records), running, len(data))
	return nil
}

func (r *Reconciler) saveFailed(err error) error {
	r.logger.Warn("error saving timers", "error", err)
	r.rec.Error("store", err, "save")
	return fmt.Errorf("save timers: %w", err)
}

// Snapshot builds the records for every presented timer in render order.
// Running timers are stamped with the current time.
func (r *Reconciler) Snapshot() []Record {
	ids := r.pres.IDs()
	records := make([]Record, 0, len(ids))

	for _, id := range ids {
		timeLeft, err := timefmt.Parse(r.pres.DisplayText(id))
		if err != nil {
			if state := r.reg.Get(id); state != nil {
				timeLeft = state.TimeLeft
			}
		}

		rec := Record{
			ID:        NewRecordID(id),
			Name:      r.pres.Name(id),
			TimeLeft:  timeLeft,
			Color:     r.color(id),
			IsRunning: r.reg.IsRunning(id),
		}
		if rec.IsRunning {
			ms := r.clock.Now().UnixMilli()
			rec.StartTime = &ms
		}
		records = append(records, rec)
	}
	return records
}

// color resolves the color control value, then the header color, then the default.
func (r *Reconciler) color(id int) string {
	if c := r.pres.Color(id); c != "" {
		return c
	}
	if c := r.pres.HeaderColor(id); c != "" {
		return c
	}
	return presenter.DefaultColor
}

// Load restores timers from the store and resumes the ones that were running.
// Missing or malformed snapshots load as empty. It returns the number of
// restored timers and ends with one snapshot of the reconciled state.
func (r *Reconciler) Load() int {
	records := r.read()

	r.loading = true
	restored := 0
	running := 0
	func() {
		defer func() { r.loading = false }()

		for _, rec := range records {
			if id, ok := rec.ID.Int(); ok {
				r.reg.EnsureAbove(id)
			}
		}

		now := r.clock.Now()
		seen := make(map[int]bool, len(records))
		for _, rec := range records {
			id, ok := rec.ID.Int()
			if !ok || seen[id] {
				// Unusable or repeated ids get a fresh one so the record
				// survives the next save with a single schedule.
				fresh := r.reg.NextID()
				r.logger.Warn("renumbering stored timer", "id", string(rec.ID), "new_id", fresh)
				id = fresh
			}
			seen[id] = true
			if r.restore(id, rec, now) {
				running++
			}
			restored++
		}
	}()

	r.logger.Info("timers loaded", "count", restored, "running", running)
	r.rec.Snapshot(timerlog.SnapshotLoad, restored, running, 0)

	r.Save()
	return restored
}

// restore renders one record and reports whether it was resumed.
func (r *Reconciler) restore(id int, rec Record, now time.Time) bool {
	color := rec.Color
	if color == "" {
		color = presenter.DefaultColor
	}
	timeLeft := timefmt.ClampTotal(rec.TimeLeft)

	r.pres.Render(id, rec.Name, timeLeft, color)
	r.pres.SetHeaderColor(id, color)
	r.pres.SetControlColor(id, color)
	state := r.reg.Add(id, timeLeft)

	if !rec.IsRunning {
		return false
	}

	remaining := timeLeft
	if rec.StartTime != nil {
		remaining = timefmt.ClampTotal(timeLeft - Elapsed(*rec.StartTime, now))
	}

	r.pres.SetDisplayText(id, timefmt.Format(remaining))
	state.TimeLeft = remaining

	if remaining == 0 {
		// Expired while the process was down; no notification.
		return false
	}

	if err := r.engine.Restart(id); err != nil {
		r.logger.Warn("error resuming timer", "id", id, "error", err)
		r.rec.Error("reconciler", err, fmt.Sprintf("restart %d", id))
		return false
	}
	return true
}

// Elapsed returns the whole seconds between a saved epoch-millisecond
// timestamp and now, rounded down. Clock skew can make it negative.
func Elapsed(startMillis int64, now time.Time) int {
	delta := now.UnixMilli() - startMillis
	secs := delta / 1000
	if delta < 0 && delta%1000 != 0 {
		secs--
	}
	return int(secs)
}

// read fetches and decodes the snapshot, treating every failure as empty.
func (r *Reconciler) read() []Record {
	raw, err := r.store.Get(StorageKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		r.logger.Warn("error reading timers", "error", err)
		r.rec.Error("store", err, "load")
		return nil
	}

	records, err := DecodeRecords(raw)
	if err != nil {
		r.logger.Warn("discarding malformed timer snapshot", "error", err)
		r.rec.Error("reconciler", err, "decode")
		return nil
	}
	return records
}

// Schedule starts the periodic save and returns its handle.
func (r *Reconciler) Schedule() clock.Handle {
	return r.clock.Every(r.every, r.Save)
}

// Run saves every SaveInterval until ctx is done.
func (r *Reconciler) Run(ctx context.Context) error {
	h := r.Schedule()
	defer h.Stop()

	<-ctx.Done()
	return ctx.Err()
}
