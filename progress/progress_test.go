package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressUpdate(t *testing.T) {
	tracker := New("sim-1", "mixed")
	tracker.Update(Delta{Submitted: 2, Ready: 2})
	tracker.Update(Delta{Ready: -1, Blocked: 1, Ticks: 1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, "sim-1", snapshot.SimulationID)
	assert.Equal(t, 2, snapshot.Submitted)
	assert.Equal(t, 1, snapshot.Ready)
	assert.Equal(t, 1, snapshot.Blocked)
	assert.Equal(t, 1, snapshot.Ticks)
}

func TestProgressOnChange(t *testing.T) {
	tracker := New("sim-1", "mixed")
	var seen []Counters
	tracker.OnChange(func(c Counters) {
		seen = append(seen, c)
	})

	tracker.Update(Delta{Submitted: 1, Ready: 1})
	tracker.Update(Delta{Ready: -1, Completed: 1})

	assert.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].Submitted)
	assert.Equal(t, 1, seen[1].Completed)
	assert.Equal(t, 0, seen[1].Ready)

	tracker.OnChange(nil)
	tracker.Update(Delta{Ticks: 1})
	assert.Len(t, seen, 2)
}

func TestProgressConcurrentUpdate(t *testing.T) {
	tracker := New("sim-1", "mixed")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.Update(Delta{Ticks: 1})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1000, tracker.Snapshot().Ticks)
}

func TestProgressContext(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "sim-1", "mixed", nil)

	UpdateCtx(ctx, Delta{Submitted: 3, Ready: 3})
	snapshot, ok := GetSnapshot(ctx)
	assert.True(t, ok)
	assert.Equal(t, 3, snapshot.Submitted)
	assert.Equal(t, 3, tracker.Snapshot().Submitted)

	_, ok = GetSnapshot(context.Background())
	assert.False(t, ok)

	// nil tracker is a safe no-op
	var nilTracker *Progress
	nilTracker.Update(Delta{Ticks: 1})
	assert.Equal(t, Counters{}, nilTracker.Snapshot())
}
