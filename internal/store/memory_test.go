package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvwatch/uv-forecast-service/internal/domain"
)

func TestMemory_PutReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok := m.Get(ctx, "singapore")
	assert.False(t, ok)

	first := domain.Snapshot{ID: "a", Location: "singapore", FetchedAt: time.Now()}
	require.NoError(t, m.Put(ctx, first))

	got, ok := m.Get(ctx, "singapore")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)

	second := domain.Snapshot{ID: "b", Location: "singapore"}
	require.NoError(t, m.Put(ctx, second))

	got, ok = m.Get(ctx, "singapore")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID, "refresh replaces the previous snapshot")
}

func TestMemory_LocationsSorted(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, name := range []string{"singapore", "austin", "oslo"} {
		require.NoError(t, m.Put(ctx, domain.Snapshot{Location: name}))
	}

	assert.Equal(t, []string{"austin", "oslo", "singapore"}, m.Locations(ctx))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Put(ctx, domain.Snapshot{Location: "singapore"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Get(ctx, "singapore")
				m.Locations(ctx)
			}
		}()
	}
	wg.Wait()
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "uv:snapshot:singapore", snapshotKey("singapore"))
}
