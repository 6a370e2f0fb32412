package scenario

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"

	"github.com/schedsim/feedq/service/meta"
)

// testFS holds our test YAML files
//
//go:embed testdata/*
var testFS embed.FS

func newTestService() *Service {
	return New(WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)))
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name            string
		url             string
		expectErr       bool
		expectName      string
		expectProcesses int
	}{
		{
			name:            "named scenario",
			url:             "mixed.yaml",
			expectName:      "mixed",
			expectProcesses: 2,
		},
		{
			name:            "name defaults to file name",
			url:             "unnamed",
			expectName:      "unnamed",
			expectProcesses: 1,
		},
		{
			name:      "duplicate process names rejected",
			url:       "broken.yaml",
			expectErr: true,
		},
		{
			name:      "missing document",
			url:       "absent.yaml",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := newTestService()
			actual, err := service.Load(ctx, tc.url)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
			assert.Equal(t, tc.expectName, actual.Name)
			assert.Len(t, actual.Processes, tc.expectProcesses)
			require.NotNil(t, actual.Source)
			assert.Contains(t, actual.Source.URL, tc.expectName)
		})
	}
}

func TestService_LoadDetails(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	actual, err := service.Load(ctx, "mixed")
	require.NoError(t, err)

	require.NotNil(t, actual.Scheduler)
	assert.Equal(t, 3, actual.Scheduler.Levels)
	assert.Equal(t, "10ms", actual.Scheduler.BaseQuantum)
	assert.Equal(t, "50ms", actual.Scheduler.BlockingQuantum)

	hog := actual.Lookup("hog")
	require.NotNil(t, hog)
	assert.Equal(t, "cpu", hog.Kind)
	assert.Equal(t, "25ms", hog.Burst)

	editor := actual.Lookup("editor")
	require.NotNil(t, editor)
	assert.Equal(t, 2, editor.Cycles)
}

func TestService_LoadCacheIsolation(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	first, err := service.Load(ctx, "mixed")
	require.NoError(t, err)

	// Mutating a returned scenario must not leak into the cached master.
	first.Name = "mutated"
	first.Processes[0].Burst = "99ms"

	second, err := service.Load(ctx, "mixed")
	require.NoError(t, err)
	assert.Equal(t, "mixed", second.Name)
	assert.Equal(t, "25ms", second.Processes[0].Burst)

	service.Invalidate(ctx, "mixed")
	third, err := service.Load(ctx, "mixed")
	require.NoError(t, err)
	assert.Equal(t, "mixed", third.Name)
}

func TestService_DecodeYAML(t *testing.T) {
	service := newTestService()

	actual, err := service.DecodeYAML([]byte(`
name: inline
processes:
  - name: one
    kind: cpu
    burst: 4ms
`))
	require.NoError(t, err)
	assert.Equal(t, "inline", actual.Name)
	require.Len(t, actual.Processes, 1)
	assert.Equal(t, "one", actual.Processes[0].Name)

	_, err = service.DecodeYAML([]byte(`processes: [`))
	assert.Error(t, err)

	anonymous, err := service.DecodeYAML([]byte(`
processes:
  - name: solo
    kind: cpu
    burst: 1ms
`))
	require.NoError(t, err)
	assert.Contains(t, anonymous.Name, "anonymous-")
}
