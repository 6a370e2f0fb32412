package workload

import (
	"time"

	"github.com/schedsim/feedq/internal/idgen"
	"github.com/schedsim/feedq/model"
)

// Phase is one stretch of a synthetic process's life: a CPU burst or a
// blocking wait.
type Phase struct {
	Blocking bool
	Duration time.Duration
}

// CPU returns a CPU-burst phase.
func CPU(duration time.Duration) *Phase {
	return &Phase{Duration: duration}
}

// IO returns a blocking-wait phase.
func IO(duration time.Duration) *Phase {
	return &Phase{Blocking: true, Duration: duration}
}

// Process is a synthetic, phase-driven workload. Phases run strictly in
// order; CPU budgets never cross into a blocking phase and blocking budgets
// never cross into a burst. Instances are not safe for concurrent use:
// ownership passes from queue to queue, it is never shared.
type Process struct {
	id      string
	name    string
	phases  []*Phase
	current int
}

var _ model.Process = (*Process)(nil)

// New creates a process from an explicit phase list. Nil and zero-length
// phases are dropped.
func New(name string, phases ...*Phase) *Process {
	kept := make([]*Phase, 0, len(phases))
	for _, phase := range phases {
		if phase == nil || phase.Duration <= 0 {
			continue
		}
		copied := *phase
		kept = append(kept, &copied)
	}
	return &Process{id: idgen.New(), name: name, phases: kept}
}

// ID returns the generated process identifier.
func (p *Process) ID() string {
	return p.id
}

// Name returns the process name.
func (p *Process) Name() string {
	return p.name
}

// Execute consumes CPU time up to budget. It stops early at a blocking
// phase or when no work remains, reporting the outcome that caused the
// stop.
func (p *Process) Execute(budget time.Duration) (time.Duration, model.Outcome) {
	var consumed time.Duration
	for budget > 0 {
		phase := p.phase()
		if phase == nil {
			break
		}
		if phase.Blocking {
			return consumed, model.OutcomeBlocked
		}
		step := phase.Duration
		if step > budget {
			step = budget
		}
		phase.Duration -= step
		consumed += step
		budget -= step
		if phase.Duration <= 0 {
			p.current++
		}
	}
	if p.Done() {
		return consumed, model.OutcomeCompleted
	}
	if p.Blocking() {
		return consumed, model.OutcomeBlocked
	}
	return consumed, model.OutcomePreempted
}

// Block consumes blocking wait time up to budget and reports whether the
// wait finished. Calling Block while the process is not waiting is a no-op
// reported as done.
func (p *Process) Block(budget time.Duration) (time.Duration, bool) {
	phase := p.phase()
	if phase == nil || !phase.Blocking {
		return 0, true
	}
	if budget <= 0 {
		return 0, false
	}
	step := phase.Duration
	if step > budget {
		step = budget
	}
	phase.Duration -= step
	if phase.Duration <= 0 {
		p.current++
		return step, true
	}
	return step, false
}

// Done reports whether every phase has finished.
func (p *Process) Done() bool {
	return p.phase() == nil
}

// Blocking reports whether the process is waiting on a blocking phase.
func (p *Process) Blocking() bool {
	phase := p.phase()
	return phase != nil && phase.Blocking
}

// Remaining returns the total unfinished time across all phases.
func (p *Process) Remaining() time.Duration {
	var total time.Duration
	for i := p.current; i < len(p.phases); i++ {
		total += p.phases[i].Duration
	}
	return total
}

func (p *Process) phase() *Phase {
	if p.current >= len(p.phases) {
		return nil
	}
	return p.phases[p.current]
}
