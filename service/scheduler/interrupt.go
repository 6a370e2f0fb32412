package scheduler

import (
	"context"

	"github.com/schedsim/feedq/progress"
	"github.com/schedsim/feedq/service/runqueue"
)

// Raise enqueues an interrupt for routing at the end of the current dispatch
// cycle. Interrupts raised outside a running loop are routed by the next
// tick.
func (s *Service) Raise(ctx context.Context, interrupt runqueue.Interrupt) error {
	return s.interrupts.Publish(ctx, &interrupt)
}

// drainInterrupts routes every pending interrupt within the current tick so
// a process dequeued this cycle is back on a queue before the next one.
func (s *Service) drainInterrupts(ctx context.Context) error {
	for s.interrupts.Size() > 0 {
		message, err := s.interrupts.Consume(ctx)
		if err != nil {
			return err
		}
		if routeErr := s.HandleInterrupt(ctx, *message.T()); routeErr != nil {
			_ = message.Nack(routeErr)
			return routeErr
		}
		if err := message.Ack(); err != nil {
			return err
		}
	}
	return nil
}

// HandleInterrupt moves the interrupted process to its next queue:
//
//   - processBlocked sends it to the blocking queue,
//   - processReady boosts it back to the highest priority level,
//   - lowerPriority demotes it one level, or requeues it at the blocking
//     tail when its blocking phase merely outlasted the quantum.
//
// Interrupts of unknown kind are dropped without effect.
func (s *Service) HandleInterrupt(ctx context.Context, interrupt runqueue.Interrupt) error {
	process := interrupt.Process
	if process == nil {
		return nil
	}
	record := s.record(process.ID())

	switch interrupt.Kind {
	case runqueue.KindProcessBlocked:
		s.blocking.Enqueue(process)
		s.tracker.Update(progress.Delta{Ready: -1, Blocked: 1})
		if record != nil {
			record.Blocked()
			s.publishRecordEvent(ctx, record, "blocked")
		}

	case runqueue.KindProcessReady:
		level := s.policy.BoostLevel()
		s.cpu[level].Enqueue(process)
		s.tracker.Update(progress.Delta{Blocked: -1, Ready: 1, Boosts: 1})
		if record != nil {
			record.Boost(level)
			s.publishRecordEvent(ctx, record, "ready")
		}

	case runqueue.KindLowerPriority:
		if interrupt.Queue != nil && interrupt.Queue.Role() == runqueue.RoleBlocking {
			// Still blocked; back to the tail with no state change.
			s.blocking.Enqueue(process)
			break
		}
		fromLevel := 0
		if interrupt.Queue != nil {
			fromLevel = interrupt.Queue.Level()
		}
		level := s.policy.Demote(fromLevel)
		s.cpu[level].Enqueue(process)
		s.tracker.Update(progress.Delta{Demotions: 1})
		if record != nil {
			record.Demote(level)
			s.publishRecordEvent(ctx, record, "demoted")
		}

	default:
		// Unknown interrupt kinds are ignored.
		return nil
	}

	if record != nil {
		return s.recordDAO.Save(ctx, record)
	}
	return nil
}
