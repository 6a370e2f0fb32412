package messaging

import (
	"context"
)

// Vendor names a queue implementation.
type Vendor string

// VendorMemory is the in-process channel backed queue implementation.
const VendorMemory Vendor = "memory"

// Queue is an abstract message queue for any payload type. The scheduler
// uses it to move interrupts from the run queues to the routing code, and
// the event service uses it to fan out typed events.
type Queue[T any] interface {
	// Publish adds a new message with the given payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message, blocking until one is available
	Consume(ctx context.Context) (Message[T], error)

	// Size returns the number of pending messages
	Size() int
}

// Message is a single item taken off a queue. Handlers settle it with Ack
// or Nack once processing finished.
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error

	// Nack indicates failure in processing this message
	Nack(err error) error
}
