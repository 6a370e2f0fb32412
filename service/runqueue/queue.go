package runqueue

import (
	"errors"
	"sync"
	"time"

	"github.com/schedsim/feedq/model"
)

// ErrEmptyQueue is returned when a head process is requested from a queue
// that holds none. Callers are expected to check IsEmpty first.
var ErrEmptyQueue = errors.New("queue is empty")

// Role distinguishes how a queue is serviced.
type Role string

const (
	// RoleCPU marks a priority-ranked queue serviced with CPU grants
	RoleCPU Role = "cpu"

	// RoleBlocking marks the single queue serviced with blocking grants
	RoleBlocking Role = "blocking"
)

// Queue holds processes at one priority level (or the blocking role) in
// arrival order. Role, level and quantum are fixed at construction;
// membership changes only via Enqueue and Dequeue.
type Queue struct {
	role    Role
	level   int
	quantum time.Duration

	mu       sync.Mutex
	elements []model.Process
}

// New creates a queue with the given role, priority level and quantum. The
// level is meaningful for the CPU role only.
func New(role Role, level int, quantum time.Duration) *Queue {
	return &Queue{
		role:     role,
		level:    level,
		quantum:  quantum,
		elements: make([]model.Process, 0),
	}
}

// NewBlocking creates the blocking queue with the given quantum.
func NewBlocking(quantum time.Duration) *Queue {
	return New(RoleBlocking, -1, quantum)
}

// Enqueue appends a process to the tail. It always succeeds.
func (q *Queue) Enqueue(process model.Process) {
	if process == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.elements = append(q.elements, process)
}

// Dequeue removes and returns the head process. It returns ErrEmptyQueue
// when the queue holds none.
func (q *Queue) Dequeue() (model.Process, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.elements) == 0 {
		return nil, ErrEmptyQueue
	}
	head := q.elements[0]
	q.elements = q.elements[1:]
	return head, nil
}

// Peek returns the head process without removing it, or nil.
func (q *Queue) Peek() model.Process {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.elements) == 0 {
		return nil
	}
	return q.elements[0]
}

// IsEmpty reports whether the queue holds zero processes.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of queued processes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.elements)
}

// Role returns the queue role.
func (q *Queue) Role() Role {
	return q.role
}

// Level returns the priority level; 0 is the highest. The value is
// meaningful for the CPU role only.
func (q *Queue) Level() int {
	return q.level
}

// Quantum returns the time budget granted to a single process per dispatch.
func (q *Queue) Quantum() time.Duration {
	return q.quantum
}
