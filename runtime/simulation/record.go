package simulation

import (
	"sync"
	"time"

	"github.com/schedsim/feedq/internal/clock"
	"github.com/schedsim/feedq/service/event"
)

// Record keeps the per-process accounting of one simulation run: queue
// membership, consumed CPU and blocking time and the transition counters the
// scheduler accumulates while the process moves between queues.
type Record struct {
	ID           string        `json:"id"`
	SimulationID string        `json:"simulationId"`
	Name         string        `json:"name"`
	State        RecordState   `json:"state"`
	Level        int           `json:"level"`
	CPUTime      time.Duration `json:"cpuTime"`
	BlockingTime time.Duration `json:"blockingTime"`
	Demotions    int           `json:"demotions,omitempty"`
	Boosts       int           `json:"boosts,omitempty"`
	Blocks       int           `json:"blocks,omitempty"`
	SubmittedAt  time.Time     `json:"submittedAt"`
	FirstRunAt   *time.Time    `json:"firstRunAt,omitempty"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	mux          sync.RWMutex
}

// NewRecord opens the accounting for a freshly submitted process. New work
// always enters at the highest priority level.
func NewRecord(simulationID, processID, name string) *Record {
	now := clock.Now()
	return &Record{
		ID:           processID,
		SimulationID: simulationID,
		Name:         name,
		State:        RecordStateReady,
		Level:        0,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}
}

// Context builds an event context for this record. TimeTakenMs carries the
// total serviced time at the moment the event was raised.
func (r *Record) Context(eventType string) *event.Context {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return &event.Context{
		SimulationID: r.SimulationID,
		ProcessID:    r.ID,
		EventType:    eventType,
		Service:      "scheduler",
		Level:        r.Level,
		TimeTakenMs:  int((r.CPUTime + r.BlockingTime) / time.Millisecond),
	}
}

// Run marks the record as being serviced; the first call stamps FirstRunAt.
func (r *Record) Run() {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.FirstRunAt == nil {
		now := clock.Now()
		r.FirstRunAt = &now
	}
	r.State = RecordStateRunning
	r.UpdatedAt = clock.Now()
}

// AddCPUTime accumulates consumed CPU time.
func (r *Record) AddCPUTime(consumed time.Duration) {
	if consumed <= 0 {
		return
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.CPUTime += consumed
	r.UpdatedAt = clock.Now()
}

// AddBlockingTime accumulates consumed blocking time.
func (r *Record) AddBlockingTime(consumed time.Duration) {
	if consumed <= 0 {
		return
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.BlockingTime += consumed
	r.UpdatedAt = clock.Now()
}

// Ready marks the record as runnable at the given CPU level.
func (r *Record) Ready(level int) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.State = RecordStateReady
	r.Level = level
	r.UpdatedAt = clock.Now()
}

// Demote records a forced preemption into the given lower level.
func (r *Record) Demote(level int) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.Demotions++
	r.Level = level
	r.State = RecordStateReady
	r.UpdatedAt = clock.Now()
}

// Blocked marks the record as waiting in the blocking queue.
func (r *Record) Blocked() {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.State != RecordStateBlocked {
		r.Blocks++
	}
	r.State = RecordStateBlocked
	r.UpdatedAt = clock.Now()
}

// Boost records the priority boost after a completed blocking phase.
func (r *Record) Boost(level int) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.Boosts++
	r.Level = level
	r.State = RecordStateReady
	r.UpdatedAt = clock.Now()
}

// Complete marks the record as finished and stamps CompletedAt.
func (r *Record) Complete() {
	r.mux.Lock()
	defer r.mux.Unlock()
	now := clock.Now()
	r.CompletedAt = &now
	r.State = RecordStateCompleted
	r.UpdatedAt = now
}

// GetState returns the current record state.
func (r *Record) GetState() RecordState {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.State
}

// GetLevel returns the current CPU priority level.
func (r *Record) GetLevel() int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.Level
}

// Turnaround returns the time between submission and completion; for an
// unfinished process it returns the time since submission.
func (r *Record) Turnaround() time.Duration {
	r.mux.RLock()
	defer r.mux.RUnlock()
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(r.SubmittedAt)
	}
	return clock.Since(r.SubmittedAt)
}

// Waiting returns the turnaround minus the serviced CPU and blocking time,
// i.e. the time spent queued without being serviced.
func (r *Record) Waiting() time.Duration {
	waiting := r.Turnaround()
	r.mux.RLock()
	defer r.mux.RUnlock()
	waiting -= r.CPUTime + r.BlockingTime
	if waiting < 0 {
		return 0
	}
	return waiting
}

// Response returns the time between submission and the first CPU service, or
// zero when the process never ran.
func (r *Record) Response() time.Duration {
	r.mux.RLock()
	defer r.mux.RUnlock()
	if r.FirstRunAt == nil {
		return 0
	}
	return r.FirstRunAt.Sub(r.SubmittedAt)
}

// Clone creates a deep copy of the record so that the caller can mutate it
// without affecting the original instance.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	r.mux.RLock()
	defer r.mux.RUnlock()

	out := &Record{
		ID:           r.ID,
		SimulationID: r.SimulationID,
		Name:         r.Name,
		State:        r.State,
		Level:        r.Level,
		CPUTime:      r.CPUTime,
		BlockingTime: r.BlockingTime,
		Demotions:    r.Demotions,
		Boosts:       r.Boosts,
		Blocks:       r.Blocks,
		SubmittedAt:  r.SubmittedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.FirstRunAt != nil {
		firstRun := *r.FirstRunAt
		out.FirstRunAt = &firstRun
	}
	if r.CompletedAt != nil {
		completed := *r.CompletedAt
		out.CompletedAt = &completed
	}
	return out
}

// CopyFrom updates exported, mutex-independent fields from src. It
// intentionally skips the mutex as copying it would corrupt internal state.
func (r *Record) CopyFrom(src any) {
	other, ok := src.(*Record)
	if !ok || other == nil || r == other {
		return
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.State = other.State
	r.Level = other.Level
	r.CPUTime = other.CPUTime
	r.BlockingTime = other.BlockingTime
	r.Demotions = other.Demotions
	r.Boosts = other.Boosts
	r.Blocks = other.Blocks
	r.FirstRunAt = other.FirstRunAt
	r.CompletedAt = other.CompletedAt
	r.UpdatedAt = other.UpdatedAt
}
