package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyQuantumAt(t *testing.T) {
	aPolicy := &Policy{
		Levels:          3,
		BaseQuantum:     10 * time.Millisecond,
		QuantumStep:     20 * time.Millisecond,
		BlockingQuantum: 50 * time.Millisecond,
	}

	testCases := []struct {
		description string
		level       int
		expected    time.Duration
	}{
		{description: "highest level", level: 0, expected: 10 * time.Millisecond},
		{description: "middle level", level: 1, expected: 30 * time.Millisecond},
		{description: "lowest level", level: 2, expected: 50 * time.Millisecond},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expected, aPolicy.QuantumAt(testCase.level))
		})
	}
}

func TestPolicyDemote(t *testing.T) {
	aPolicy := &Policy{Levels: 3, BaseQuantum: time.Millisecond, BlockingQuantum: time.Millisecond}

	assert.Equal(t, 1, aPolicy.Demote(0))
	assert.Equal(t, 2, aPolicy.Demote(1))
	// already at the lowest tier - stays clamped
	assert.Equal(t, 2, aPolicy.Demote(2))
	assert.Equal(t, 0, aPolicy.BoostLevel())
}

func TestPolicyDefaults(t *testing.T) {
	var nilPolicy *Policy
	assert.Equal(t, DefaultBaseQuantum, nilPolicy.QuantumAt(0))
	assert.Equal(t, DefaultLevels, nilPolicy.LevelCount())
	assert.NoError(t, nilPolicy.Validate())
}

func TestPolicyValidate(t *testing.T) {
	testCases := []struct {
		description string
		policy      *Policy
		expectError bool
	}{
		{
			description: "valid",
			policy:      DefaultPolicy(),
		},
		{
			description: "no levels",
			policy:      &Policy{BaseQuantum: time.Millisecond, BlockingQuantum: time.Millisecond},
			expectError: true,
		},
		{
			description: "zero base quantum",
			policy:      &Policy{Levels: 2, BlockingQuantum: time.Millisecond},
			expectError: true,
		},
		{
			description: "negative step",
			policy:      &Policy{Levels: 2, BaseQuantum: time.Millisecond, QuantumStep: -time.Millisecond, BlockingQuantum: time.Millisecond},
			expectError: true,
		},
		{
			description: "zero blocking quantum",
			policy:      &Policy{Levels: 2, BaseQuantum: time.Millisecond},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			err := testCase.policy.Validate()
			if testCase.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPolicyFromConfig(t *testing.T) {
	result, err := FromConfig(&Config{Levels: 2, BaseQuantum: "5ms", QuantumStep: "15ms"})
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Levels)
	assert.Equal(t, 5*time.Millisecond, result.BaseQuantum)
	assert.Equal(t, 15*time.Millisecond, result.QuantumStep)
	assert.Equal(t, DefaultBlockingQuantum, result.BlockingQuantum)

	_, err = FromConfig(&Config{BaseQuantum: "not-a-duration"})
	assert.Error(t, err)

	result, err = FromConfig(nil)
	assert.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), result)

	roundTrip := ToConfig(result)
	assert.Equal(t, "10ms", roundTrip.BaseQuantum)
	assert.Nil(t, ToConfig(nil))
}

func TestPolicyContext(t *testing.T) {
	aPolicy := DefaultPolicy()
	ctx := WithPolicy(context.Background(), aPolicy)
	assert.Same(t, aPolicy, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}
