package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
)

func TestServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	require.NoError(t, err)

	record := simulation.NewRecord("sim-1", "proc-1", "hog")
	record.Run()
	record.AddCPUTime(10 * time.Millisecond)
	record.Demote(1)
	require.NoError(t, service.Save(ctx, record))

	loaded, err := service.Load(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, loaded.ID)
	assert.Equal(t, "hog", loaded.Name)
	assert.Equal(t, 1, loaded.Level)
	assert.Equal(t, simulation.RecordStateReady, loaded.State)
	assert.Equal(t, 1, loaded.Demotions)
}

func TestServiceErrors(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, service.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, service.Save(ctx, &simulation.Record{}), dao.ErrInvalidID)

	_, err = service.Load(ctx, "ghost")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, service.Delete(ctx, "ghost"), dao.ErrNotFound)

	_, err = New("")
	assert.Error(t, err)
}

func TestServiceListFilters(t *testing.T) {
	ctx := context.Background()
	service, err := New(t.TempDir())
	require.NoError(t, err)

	ready := simulation.NewRecord("sim-1", "proc-1", "a")
	completed := simulation.NewRecord("sim-1", "proc-2", "b")
	completed.Complete()
	require.NoError(t, service.Save(ctx, ready))
	require.NoError(t, service.Save(ctx, completed))

	all, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := service.List(ctx, dao.NewParameter("State", string(simulation.RecordStateCompleted)))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "b", done[0].Name)

	require.NoError(t, service.Delete(ctx, ready.ID))
	remaining, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
