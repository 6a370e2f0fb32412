package model

import "time"

// Outcome describes the post-condition of a CPU grant.
type Outcome string

const (
	// OutcomeCompleted means every burst, CPU and blocking alike, is exhausted.
	OutcomeCompleted Outcome = "completed"

	// OutcomeBlocked means the next required phase is a blocking one.
	OutcomeBlocked Outcome = "blocked"

	// OutcomePreempted means the process still needs CPU beyond the granted budget.
	OutcomePreempted Outcome = "preempted"
)

// Process is the capability contract the scheduler requires from a unit of
// work. Implementations advance synthetic bursts; they never run real
// workloads.
type Process interface {
	// ID returns the stable unique identifier of the process.
	ID() string

	// Name returns a human-readable name.
	Name() string

	// Execute consumes up to budget of CPU time and reports how much was
	// actually consumed together with the post-condition. A process that
	// reaches a blocking phase mid-budget consumes the CPU time up to the
	// phase boundary and then reports OutcomeBlocked.
	Execute(budget time.Duration) (consumed time.Duration, outcome Outcome)

	// Block consumes up to budget of blocking time; done reports whether the
	// blocking phase completed.
	Block(budget time.Duration) (consumed time.Duration, done bool)

	// Done reports whether all required bursts are exhausted.
	Done() bool

	// Blocking reports whether the next required phase is a blocking one.
	Blocking() bool

	// Remaining returns the total outstanding CPU and blocking time.
	Remaining() time.Duration
}
