package event

import (
	"context"

	"github.com/schedsim/feedq/internal/clock"
	"github.com/schedsim/feedq/service/messaging"
)

// Publisher writes typed events to its queue and mirrors each of them onto
// the service firehose when one is attached.
type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	firehose messaging.Queue[Event[any]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps the event with the current time and enqueues it.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if p.firehose != nil {
		_ = p.firehose.Publish(ctx, event.erased())
	}
	return p.queue.Publish(ctx, event)
}

// Consume takes the next event off the queue, acknowledging it on receipt.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	message, err := p.queue.Consume(ctx)
	if err != nil || message == nil {
		return nil, err
	}
	if err = message.Ack(); err != nil {
		return nil, err
	}
	return message.T(), nil
}
