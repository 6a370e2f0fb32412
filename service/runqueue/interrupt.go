package runqueue

import (
	"github.com/schedsim/feedq/model"
)

// Kind identifies an interrupt raised by a queue while executing work. The
// vocabulary is closed; the scheduler treats any other value as a no-op.
type Kind string

const (
	// KindProcessBlocked requests a move to the blocking queue
	KindProcessBlocked Kind = "processBlocked"

	// KindProcessReady requests a boost back to the highest CPU level
	KindProcessReady Kind = "processReady"

	// KindLowerPriority requests a demotion to the next lower CPU level, or
	// a re-enqueue when raised by the blocking queue
	KindLowerPriority Kind = "lowerPriority"
)

// Interrupt is the (source queue, process, kind) triple a queue raises to
// request a membership change. Queues never hold a scheduler reference; the
// interrupt value itself travels to whoever routes it.
type Interrupt struct {
	Queue   *Queue
	Process model.Process
	Kind    Kind
}
