package workload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedsim/feedq/extension"
	"github.com/schedsim/feedq/model"
)

func TestConstructorShapes(t *testing.T) {
	cpu := CPUBound("hog", 25*time.Millisecond)
	assert.Equal(t, 25*time.Millisecond, cpu.Remaining())
	assert.False(t, cpu.Blocking())

	io := IOBound("reader", 2*time.Millisecond, 10*time.Millisecond, 3)
	assert.Equal(t, 36*time.Millisecond, io.Remaining())

	interactive := Interactive("editor", 2*time.Millisecond, 10*time.Millisecond, 2)
	assert.Equal(t, 26*time.Millisecond, interactive.Remaining())

	// Cycle counts below one are clamped.
	clamped := IOBound("min", time.Millisecond, time.Millisecond, 0)
	assert.Equal(t, 2*time.Millisecond, clamped.Remaining())
}

func TestRegisterAndBuild(t *testing.T) {
	kinds := extension.NewKinds()
	Register(kinds)
	assert.Equal(t, []string{KindCPU, KindInteractive, KindIO, KindPhased}, kinds.Names())

	testCases := []struct {
		name            string
		spec            *model.ProcessSpec
		expectErr       bool
		expectRemaining time.Duration
	}{
		{
			name:            "cpu kind",
			spec:            &model.ProcessSpec{Name: "hog", Kind: KindCPU, Burst: "25ms"},
			expectRemaining: 25 * time.Millisecond,
		},
		{
			name:            "io kind",
			spec:            &model.ProcessSpec{Name: "reader", Kind: KindIO, Burst: "2ms", IO: "10ms", Cycles: 2},
			expectRemaining: 24 * time.Millisecond,
		},
		{
			name:            "interactive kind",
			spec:            &model.ProcessSpec{Name: "editor", Kind: KindInteractive, Burst: "5ms", IO: "20ms", Cycles: 1},
			expectRemaining: 30 * time.Millisecond,
		},
		{
			name: "phased kind",
			spec: &model.ProcessSpec{Name: "mixed", Kind: KindPhased, Phases: []*model.PhaseSpec{
				{Kind: "cpu", Duration: "5ms"},
				{Kind: "io", Duration: "20ms"},
			}},
			expectRemaining: 25 * time.Millisecond,
		},
		{
			name: "kind defaults to phased",
			spec: &model.ProcessSpec{Name: "implicit", Phases: []*model.PhaseSpec{
				{Kind: "cpu", Duration: "5ms"},
			}},
			expectRemaining: 5 * time.Millisecond,
		},
		{
			name:      "unknown kind",
			spec:      &model.ProcessSpec{Name: "mystery", Kind: "quantum"},
			expectErr: true,
		},
		{
			name:      "missing burst",
			spec:      &model.ProcessSpec{Name: "hog", Kind: KindCPU},
			expectErr: true,
		},
		{
			name:      "missing io",
			spec:      &model.ProcessSpec{Name: "reader", Kind: KindIO, Burst: "2ms"},
			expectErr: true,
		},
		{
			name: "bad phase kind",
			spec: &model.ProcessSpec{Name: "mixed", Kind: KindPhased, Phases: []*model.PhaseSpec{
				{Kind: "gpu", Duration: "5ms"},
			}},
			expectErr: true,
		},
		{
			name:      "empty phase list",
			spec:      &model.ProcessSpec{Name: "hollow", Kind: KindPhased},
			expectErr: true,
		},
		{
			name:      "nil spec",
			spec:      nil,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			process, err := kinds.Build(tc.spec)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, process)
			assert.Equal(t, tc.spec.Name, process.Name())
			assert.Equal(t, tc.expectRemaining, process.Remaining())
		})
	}
}
