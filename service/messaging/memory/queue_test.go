package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// interruptPayload mimics the triple the scheduler moves through the queue.
type interruptPayload struct {
	ProcessID string
	Kind      string
	Level     int
}

func TestQueue(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[interruptPayload](config)

	ctx := context.Background()
	payload := interruptPayload{
		ProcessID: "p-1",
		Kind:      "lowerPriority",
		Level:     1,
	}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
	assert.Equal(t, 0, queue.Size())

	msgData := message.T()
	assert.Equal(t, payload.ProcessID, msgData.ProcessID)
	assert.Equal(t, payload.Kind, msgData.Kind)
	assert.Equal(t, payload.Level, msgData.Level)

	err = message.Ack()
	assert.NoError(t, err)

	// double ack is a contract violation
	err = message.Ack()
	assert.Error(t, err)
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[interruptPayload](config)

	ctx := context.Background()
	payload := interruptPayload{ProcessID: "retry", Kind: "processBlocked"}

	err := queue.Publish(ctx, &payload)
	assert.NoError(t, err)

	// first and second nack requeue the message
	for attempt := 0; attempt < 2; attempt++ {
		message, err := queue.Consume(ctx)
		assert.NoError(t, err)
		assert.NotNil(t, message)

		err = message.Nack(nil)
		assert.NoError(t, err)

		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 1, queue.Size())
	}

	// final nack exceeds MaxRetries and lands in the dead letter queue
	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	err = message.Nack(fmt.Errorf("routing failed"))
	assert.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueueConcurrency(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[interruptPayload](config)

	ctx := context.Background()
	concurrency := 10
	messagesPerProducer := 10

	var wg sync.WaitGroup
	wg.Add(concurrency * 2) // producers + consumers

	var consumedCount int
	var consumedMu sync.Mutex

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				message, err := queue.Consume(ctx)
				if err != nil {
					t.Errorf("Error consuming: %v", err)
					continue
				}
				err = message.Ack()
				assert.NoError(t, err)

				consumedMu.Lock()
				consumedCount++
				consumedMu.Unlock()
			}
		}()
	}

	for i := 0; i < concurrency; i++ {
		go func(producerID int) {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				payload := interruptPayload{
					ProcessID: fmt.Sprintf("p%d-m%d", producerID, j),
					Kind:      "lowerPriority",
					Level:     j,
				}
				if err := queue.Publish(ctx, &payload); err != nil {
					t.Errorf("Error publishing: %v", err)
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	}

	assert.Equal(t, concurrency*messagesPerProducer, consumedCount)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[interruptPayload](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payload := interruptPayload{ProcessID: "test"}
	err := queue.Publish(ctx, &payload)
	assert.Error(t, err)

	// Consume returns once the deadline passes
	ctxWithTimeout, cancelTimeout := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancelTimeout()

	_, err = queue.Consume(ctxWithTimeout)
	assert.Error(t, err)

	// the queue stays usable after cancellation
	emptyCtx := context.Background()
	err = queue.Publish(emptyCtx, &payload)
	assert.NoError(t, err)

	message, err := queue.Consume(emptyCtx)
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
