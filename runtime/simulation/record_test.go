package simulation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/schedsim/feedq/internal/clock"
)

func TestRecordLifecycle(t *testing.T) {
	current := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return current }
	defer func() { clock.NowFunc = time.Now }()

	record := NewRecord("sim-1", "p-1", "encoder")
	assert.Equal(t, RecordStateReady, record.GetState())
	assert.Equal(t, 0, record.GetLevel())
	assert.False(t, record.GetState().IsTerminal())

	// first service starts 5ms after submission
	current = current.Add(5 * time.Millisecond)
	record.Run()
	assert.Equal(t, RecordStateRunning, record.GetState())
	assert.Equal(t, 5*time.Millisecond, record.Response())

	record.AddCPUTime(10 * time.Millisecond)
	record.Demote(1)
	assert.Equal(t, 1, record.GetLevel())
	assert.Equal(t, 1, record.Demotions)
	assert.Equal(t, RecordStateReady, record.GetState())

	record.Run()
	record.AddCPUTime(5 * time.Millisecond)
	record.Blocked()
	assert.Equal(t, RecordStateBlocked, record.GetState())
	assert.Equal(t, 1, record.Blocks)

	// staying blocked does not double count
	record.Blocked()
	assert.Equal(t, 1, record.Blocks)

	record.AddBlockingTime(20 * time.Millisecond)
	record.Boost(0)
	assert.Equal(t, 0, record.GetLevel())
	assert.Equal(t, 1, record.Boosts)

	current = current.Add(45 * time.Millisecond)
	record.Complete()
	assert.Equal(t, RecordStateCompleted, record.GetState())
	assert.True(t, record.GetState().IsTerminal())

	assert.Equal(t, 50*time.Millisecond, record.Turnaround())
	assert.Equal(t, 15*time.Millisecond, record.CPUTime)
	assert.Equal(t, 20*time.Millisecond, record.BlockingTime)
	assert.Equal(t, 15*time.Millisecond, record.Waiting())

	// zero and negative amounts are ignored
	record.AddCPUTime(0)
	record.AddCPUTime(-time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, record.CPUTime)
}

func TestRecordContext(t *testing.T) {
	record := NewRecord("sim-9", "p-7", "indexer")
	record.Demote(2)
	record.AddCPUTime(12 * time.Millisecond)
	record.AddBlockingTime(3 * time.Millisecond)

	eventContext := record.Context("demoted")
	assert.Equal(t, "sim-9", eventContext.SimulationID)
	assert.Equal(t, "p-7", eventContext.ProcessID)
	assert.Equal(t, "demoted", eventContext.EventType)
	assert.Equal(t, "scheduler", eventContext.Service)
	assert.Equal(t, 2, eventContext.Level)
	assert.Equal(t, 15, eventContext.TimeTakenMs)
}

func TestRecordClone(t *testing.T) {
	record := NewRecord("sim-1", "p-1", "encoder")
	record.Run()
	record.AddCPUTime(10 * time.Millisecond)

	clone := record.Clone()
	clone.Demote(1)
	clone.AddCPUTime(20 * time.Millisecond)

	assert.Equal(t, 0, record.GetLevel())
	assert.Equal(t, 10*time.Millisecond, record.CPUTime)
	assert.Equal(t, 1, clone.GetLevel())
	assert.Equal(t, 30*time.Millisecond, clone.CPUTime)

	var nilRecord *Record
	assert.Nil(t, nilRecord.Clone())
}

func TestRecordCopyFrom(t *testing.T) {
	record := NewRecord("sim-1", "p-1", "encoder")
	other := record.Clone()
	other.Demote(2)
	other.AddCPUTime(7 * time.Millisecond)

	record.CopyFrom(other)
	assert.Equal(t, 2, record.GetLevel())
	assert.Equal(t, 7*time.Millisecond, record.CPUTime)

	// incompatible sources are ignored
	record.CopyFrom("not a record")
	assert.Equal(t, 2, record.GetLevel())
}

func TestSimulationLifecycle(t *testing.T) {
	current := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return current }
	defer func() { clock.NowFunc = time.Now }()

	sim := New("sim-1", "mixed")
	assert.Equal(t, StatePending, sim.GetState())
	assert.False(t, sim.Finished())

	sim.SetState(StateRunning)
	assert.False(t, sim.Finished())
	sim.AddSubmitted()
	sim.AddSubmitted()
	sim.AddCompleted()
	assert.Equal(t, 1, sim.IncrementTicks())
	assert.Equal(t, 2, sim.IncrementTicks())

	sim.AddError(fmt.Errorf("no progress"))
	sim.AddError(nil)
	assert.Len(t, sim.Errors, 1)

	current = current.Add(100 * time.Millisecond)
	sim.SetState(StateCompleted)
	assert.True(t, sim.Finished())
	assert.NotNil(t, sim.FinishedAt)
	assert.Equal(t, 100*time.Millisecond, sim.Elapsed())

	clone := sim.Clone()
	clone.AddSubmitted()
	assert.Equal(t, 2, sim.Submitted)
	assert.Equal(t, 3, clone.Submitted)

	fresh := New("sim-1", "mixed")
	fresh.CopyFrom(clone)
	assert.Equal(t, StateCompleted, fresh.GetState())
	assert.Equal(t, 3, fresh.Submitted)
	assert.Equal(t, 2, fresh.Ticks)
}
