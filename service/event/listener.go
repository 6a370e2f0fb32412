package event

import (
	"context"
	"errors"
	"log"
)

// Listener pumps events from a publisher into a handler on its own
// goroutine until stopped.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the consume loop.
func (l *Listener[T]) Start() {
	go l.run()
}

// Stop terminates the consume loop.
func (l *Listener[T]) Stop() {
	l.cancel()
}

func (l *Listener[T]) run() {
	for l.ctx.Err() == nil {
		event, err := l.publisher.Consume(l.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("failed to consume event: %v", err)
			continue
		}
		if event == nil {
			continue
		}
		l.handler(event)
	}
}
