package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/schedsim/feedq/internal/idgen"
	"github.com/schedsim/feedq/service/messaging"
)

// Config tunes a single in-process queue.
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
}

// DefaultConfig returns the configuration used for ad-hoc queues such as the
// scheduler interrupt queue.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Queue is a channel backed messaging.Queue. Nacked messages are retried
// with a delay and end up on the dead letter list once retries run out.
type Queue[T any] struct {
	pending chan *Message[T]
	config  Config
	dead    []*Message[T]
	deadMu  sync.Mutex
}

// NewQueue creates an in-process queue with the given configuration.
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		pending: make(chan *Message[T], config.QueueBuffer),
		config:  config,
	}
}

// Publish adds a new item to the queue, blocking while the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	message := &Message[T]{id: idgen.New(), payload: *t, queue: q}
	select {
	case q.pending <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume retrieves a single item, blocking until one arrives.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case message := <-q.pending:
		return message, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of messages waiting to be consumed.
func (q *Queue[T]) Size() int {
	return len(q.pending)
}

// DLQSize returns the number of messages on the dead letter list.
func (q *Queue[T]) DLQSize() int {
	q.deadMu.Lock()
	defer q.deadMu.Unlock()
	return len(q.dead)
}

// retry requeues a copy of the message after the configured delay.
func (q *Queue[T]) retry(m *Message[T]) {
	go func() {
		time.Sleep(q.config.RetryDelay)
		q.pending <- &Message[T]{id: m.id, payload: m.payload, queue: q, attempts: m.attempts}
	}()
}

// bury moves the message to the dead letter list.
func (q *Queue[T]) bury(m *Message[T]) {
	q.deadMu.Lock()
	q.dead = append(q.dead, m)
	q.deadMu.Unlock()
}

// Message is a single in-flight queue item.
type Message[T any] struct {
	id       string
	payload  T
	queue    *Queue[T]
	attempts int
	mu       sync.Mutex
	settled  bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack marks the message as processed.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message already processed")
	}
	m.settled = true
	return nil
}

// Nack reports a processing failure. The message is retried until the
// configured limit and dead lettered after that.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message already processed")
	}
	m.settled = true
	m.attempts++
	if m.attempts <= m.queue.config.MaxRetries {
		m.queue.retry(m)
	} else if m.queue.config.DeadLetter {
		m.queue.bury(m)
	}
	return nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
