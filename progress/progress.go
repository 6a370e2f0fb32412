// Package progress provides a lightweight tracker that keeps aggregated
// scheduling counters (processes submitted, completed, demoted and so on)
// for a single simulation run.  The tracker instance lives in the run
// context; every component that receives the context can atomically update
// the counters via the Delta helper without requiring a global registry.

package progress

import (
	"context"
	"sync"
	"time"

	"github.com/schedsim/feedq/internal/clock"
)

// Delta represents an incremental counter change emitted by the scheduler
// loop.  The fields are signed and therefore can be either positive
// (increment) or negative (decrement).
type Delta struct {
	Submitted int
	Ready     int
	Blocked   int
	Completed int
	Demotions int
	Boosts    int
	Ticks     int
}

// Counters is the read-only snapshot form of the tracker. Submitted,
// Completed, Demotions, Boosts and Ticks are cumulative; Ready and Blocked
// are gauges of current queue membership.
type Counters struct {
	// Identification fields, informative only, filled when the run starts.
	SimulationID string
	Scenario     string
	StartedAt    time.Time

	Submitted int
	Ready     int
	Blocked   int
	Completed int
	Demotions int
	Boosts    int
	Ticks     int
}

// Progress keeps aggregated counters for one simulation run.  It is safe for
// concurrent use.
type Progress struct {
	counters Counters
	mu       sync.Mutex
	onChange func(Counters)
}

// New returns a tracker identified by the supplied simulation and scenario.
func New(simulationID, scenario string) *Progress {
	return &Progress{
		counters: Counters{
			SimulationID: simulationID,
			Scenario:     scenario,
			StartedAt:    clock.Now(),
		},
	}
}

// Update applies the supplied delta to the tracker.  It is safe to call from
// multiple goroutines.  If an onChange callback has been registered it will
// be invoked with a copy of the updated counters outside the critical section
// so that the callback can perform slow operations (e.g. JSON encoding, I/O)
// without blocking the scheduler loop.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()

	p.counters.Submitted += d.Submitted
	p.counters.Ready += d.Ready
	p.counters.Blocked += d.Blocked
	p.counters.Completed += d.Completed
	p.counters.Demotions += d.Demotions
	p.counters.Boosts += d.Boosts
	p.counters.Ticks += d.Ticks

	// Value-copy while we still hold the lock so the callback never sees
	// partially updated counters.
	snapshot := p.counters
	cb := p.onChange

	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters suitable for read-only inspection.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters
}

// OnChange registers a callback that is invoked after every successful
// Update.  Passing nil disables the callback.  Only one callback can be
// active; subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// Attach embeds an existing tracker in a derived context.  The scheduler
// attaches its tracker at the start of a run so that downstream code can
// snapshot the counters without holding a service reference.
func Attach(ctx context.Context, tr *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tr == nil {
		return ctx
	}
	return context.WithValue(ctx, trackerKey, tr)
}

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both.  The caller may optionally pass an onChange
// callback that will be invoked after every counter update.
func WithNewTracker(ctx context.Context, simulationID, scenario string, onChange func(Counters)) (context.Context, *Progress) {
	tr := New(simulationID, scenario)
	tr.onChange = onChange
	return Attach(ctx, tr), tr
}

// FromContext extracts the Progress tracker from ctx.  It returns (tracker,
// ok).  The second return value is false when the context carries no tracker.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// GetSnapshot is a convenience wrapper that combines FromContext and
// Snapshot.  The boolean return value is false when the context does not
// carry a tracker.
func GetSnapshot(ctx context.Context) (Counters, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Counters{}, false
}

// UpdateCtx is a helper that looks up the tracker in ctx (if any) and applies
// the supplied delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
