package workload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedsim/feedq/model"
)

func TestProcessExecute(t *testing.T) {
	testCases := []struct {
		name            string
		phases          []*Phase
		budget          time.Duration
		expectConsumed  time.Duration
		expectOutcome   model.Outcome
		expectRemaining time.Duration
	}{
		{
			name:           "burst completes within budget",
			phases:         []*Phase{CPU(5 * time.Millisecond)},
			budget:         10 * time.Millisecond,
			expectConsumed: 5 * time.Millisecond,
			expectOutcome:  model.OutcomeCompleted,
		},
		{
			name:            "budget expires mid burst",
			phases:          []*Phase{CPU(25 * time.Millisecond)},
			budget:          10 * time.Millisecond,
			expectConsumed:  10 * time.Millisecond,
			expectOutcome:   model.OutcomePreempted,
			expectRemaining: 15 * time.Millisecond,
		},
		{
			name:            "burst runs into blocking phase",
			phases:          []*Phase{CPU(5 * time.Millisecond), IO(20 * time.Millisecond)},
			budget:          10 * time.Millisecond,
			expectConsumed:  5 * time.Millisecond,
			expectOutcome:   model.OutcomeBlocked,
			expectRemaining: 20 * time.Millisecond,
		},
		{
			name:            "already waiting",
			phases:          []*Phase{IO(20 * time.Millisecond)},
			budget:          10 * time.Millisecond,
			expectConsumed:  0,
			expectOutcome:   model.OutcomeBlocked,
			expectRemaining: 20 * time.Millisecond,
		},
		{
			name: "budget spans consecutive bursts",
			phases: []*Phase{
				CPU(3 * time.Millisecond),
				CPU(4 * time.Millisecond),
			},
			budget:         10 * time.Millisecond,
			expectConsumed: 7 * time.Millisecond,
			expectOutcome:  model.OutcomeCompleted,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			process := New(tc.name, tc.phases...)
			consumed, outcome := process.Execute(tc.budget)
			assert.Equal(t, tc.expectConsumed, consumed)
			assert.Equal(t, tc.expectOutcome, outcome)
			assert.Equal(t, tc.expectRemaining, process.Remaining())
		})
	}
}

func TestProcessBlock(t *testing.T) {
	process := New("loop", CPU(5*time.Millisecond), IO(20*time.Millisecond), CPU(5*time.Millisecond))

	// Not waiting yet.
	consumed, done := process.Block(10 * time.Millisecond)
	assert.Zero(t, consumed)
	assert.True(t, done)

	_, outcome := process.Execute(5 * time.Millisecond)
	require.Equal(t, model.OutcomeBlocked, outcome)
	require.True(t, process.Blocking())

	consumed, done = process.Block(0)
	assert.Zero(t, consumed)
	assert.False(t, done)

	consumed, done = process.Block(15 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, consumed)
	assert.False(t, done)

	consumed, done = process.Block(50 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, consumed)
	assert.True(t, done)
	assert.False(t, process.Blocking())
	assert.False(t, process.Done())
	assert.Equal(t, 5*time.Millisecond, process.Remaining())

	consumed, outcome = process.Execute(10 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, consumed)
	assert.Equal(t, model.OutcomeCompleted, outcome)
	assert.True(t, process.Done())
	assert.Zero(t, process.Remaining())
}

func TestProcessIdentity(t *testing.T) {
	a := New("a", CPU(time.Millisecond))
	b := New("b", CPU(time.Millisecond))
	assert.Equal(t, "a", a.Name())
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNewDropsEmptyPhases(t *testing.T) {
	process := New("sparse", nil, CPU(0), CPU(3*time.Millisecond), IO(-time.Millisecond))
	assert.Equal(t, 3*time.Millisecond, process.Remaining())

	consumed, outcome := process.Execute(10 * time.Millisecond)
	assert.Equal(t, 3*time.Millisecond, consumed)
	assert.Equal(t, model.OutcomeCompleted, outcome)
}

func TestNewKeepsCallerPhasesIntact(t *testing.T) {
	template := CPU(5 * time.Millisecond)
	process := New("copy", template)
	_, outcome := process.Execute(10 * time.Millisecond)
	require.Equal(t, model.OutcomeCompleted, outcome)
	assert.Equal(t, 5*time.Millisecond, template.Duration)
}
