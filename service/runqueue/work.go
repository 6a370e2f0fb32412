package runqueue

import (
	"fmt"
	"time"

	"github.com/schedsim/feedq/model"
)

// Result describes a single Do*Work service call: which process ran, how
// much time it consumed, whether it left the simulation and the interrupt it
// raised, if any. A nil Result means no measurable budget was available and
// nothing happened.
type Result struct {
	Process   model.Process
	Consumed  time.Duration
	Completed bool
	Interrupt *Interrupt
}

// DoCPUWork dequeues the head process and grants it up to
// min(quantum, workTime) of CPU: the quantum bounds how long a single
// process may run before forced preemption, workTime bounds the budget of
// the current tick. Completion drops the process; a due blocking phase
// raises KindProcessBlocked; an unfinished burst raises KindLowerPriority.
// A non-positive workTime is a no-op and returns a nil Result.
func (q *Queue) DoCPUWork(workTime time.Duration) (*Result, error) {
	if q.role != RoleCPU {
		return nil, fmt.Errorf("cpu work requires a %s queue, got %s", RoleCPU, q.role)
	}
	if workTime <= 0 {
		return nil, nil
	}
	process, err := q.Dequeue()
	if err != nil {
		return nil, err
	}
	result := &Result{Process: process}
	consumed, outcome := process.Execute(q.grant(workTime))
	result.Consumed = consumed
	switch outcome {
	case model.OutcomeCompleted:
		result.Completed = true
	case model.OutcomeBlocked:
		result.Interrupt = &Interrupt{Queue: q, Process: process, Kind: KindProcessBlocked}
	default:
		// OutcomePreempted and anything unknown keeps the process in rotation
		result.Interrupt = &Interrupt{Queue: q, Process: process, Kind: KindLowerPriority}
	}
	return result, nil
}

// DoBlockingWork dequeues the head process and advances its blocking phase
// by up to min(quantum, workTime). A completed phase raises KindProcessReady
// unless the process is fully done, in which case it is dropped; an
// unfinished phase raises KindLowerPriority so the process re-joins the
// blocking queue tail. A non-positive workTime is a no-op and returns a nil
// Result.
func (q *Queue) DoBlockingWork(workTime time.Duration) (*Result, error) {
	if q.role != RoleBlocking {
		return nil, fmt.Errorf("blocking work requires a %s queue, got %s", RoleBlocking, q.role)
	}
	if workTime <= 0 {
		return nil, nil
	}
	process, err := q.Dequeue()
	if err != nil {
		return nil, err
	}
	result := &Result{Process: process}
	consumed, done := process.Block(q.grant(workTime))
	result.Consumed = consumed
	switch {
	case done && process.Done():
		result.Completed = true
	case done:
		result.Interrupt = &Interrupt{Queue: q, Process: process, Kind: KindProcessReady}
	default:
		result.Interrupt = &Interrupt{Queue: q, Process: process, Kind: KindLowerPriority}
	}
	return result, nil
}

// grant bounds a single service call by both the queue quantum and the tick
// budget.
func (q *Queue) grant(workTime time.Duration) time.Duration {
	if q.quantum < workTime {
		return q.quantum
	}
	return workTime
}
