package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/schedsim/feedq/internal/clock"
)

// Simulation state constants
const (
	StatePending   = "pending"
	StateRunning   = "running"
	StateCompleted = "completed"
	StateCancelled = "cancelled"
	StateFailed    = "failed"
)

// Simulation represents a single scheduler run: the queues' lifetime from the
// first submission until every queue drained (or the run was cancelled).
type Simulation struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	State      string     `json:"state"`
	Ticks      int        `json:"ticks"`
	Submitted  int        `json:"submitted"`
	Completed  int        `json:"completed"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Errors     []string   `json:"errors,omitempty"`
	mu         sync.RWMutex
}

// New creates a new simulation in the pending state.
func New(id, name string) *Simulation {
	now := clock.Now()
	return &Simulation{
		ID:        id,
		Name:      name,
		State:     StatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetState returns the simulation state.
func (s *Simulation) GetState() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.State
}

// Finished reports whether the simulation reached a terminal state.
func (s *Simulation) Finished() bool {
	switch s.GetState() {
	case StateCompleted, StateCancelled, StateFailed:
		return true
	}
	return false
}

// SetState updates the simulation state; terminal states also stamp
// FinishedAt.
func (s *Simulation) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = state
	switch state {
	case StateCompleted, StateCancelled, StateFailed:
		now := clock.Now()
		s.FinishedAt = &now
	}
	s.UpdatedAt = clock.Now()
}

// IncrementTicks bumps the tick counter and returns the new value.
func (s *Simulation) IncrementTicks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ticks++
	s.UpdatedAt = clock.Now()
	return s.Ticks
}

// AddSubmitted bumps the submitted-process counter.
func (s *Simulation) AddSubmitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Submitted++
	s.UpdatedAt = clock.Now()
}

// AddCompleted bumps the completed-process counter.
func (s *Simulation) AddCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed++
	s.UpdatedAt = clock.Now()
}

// AddError records a run error.
func (s *Simulation) AddError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, err.Error())
	s.UpdatedAt = clock.Now()
}

// Elapsed returns the run duration: up to FinishedAt for terminal runs,
// up to now otherwise.
func (s *Simulation) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FinishedAt != nil {
		return s.FinishedAt.Sub(s.CreatedAt)
	}
	return clock.Since(s.CreatedAt)
}

// Clone creates a deep copy safe for reads and mutations outside the
// original store.
func (s *Simulation) Clone() *Simulation {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := &Simulation{
		ID:        s.ID,
		Name:      s.Name,
		State:     s.State,
		Ticks:     s.Ticks,
		Submitted: s.Submitted,
		Completed: s.Completed,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.FinishedAt != nil {
		finished := *s.FinishedAt
		out.FinishedAt = &finished
	}
	if len(s.Errors) > 0 {
		out.Errors = append([]string(nil), s.Errors...)
	}
	return out
}

// CopyFrom updates exported, mutex-independent fields from src. It
// intentionally skips the mutex as copying it would corrupt internal state.
func (s *Simulation) CopyFrom(src any) {
	other, ok := src.(*Simulation)
	if !ok || other == nil || s == other {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = other.State
	s.Ticks = other.Ticks
	s.Submitted = other.Submitted
	s.Completed = other.Completed
	s.UpdatedAt = other.UpdatedAt
	s.FinishedAt = other.FinishedAt
	s.Errors = other.Errors
}

// Wait blocks until a simulation reaches a terminal state or the timeout
// elapses.
type Wait func(ctx context.Context, timeout time.Duration) (*Output, error)

// Output summarises a finished (or timed-out) simulation run.
type Output struct {
	SimulationID string
	State        string
	Ticks        int
	Records      []*Record
	TimeTaken    time.Duration
	Timeout      bool
}
