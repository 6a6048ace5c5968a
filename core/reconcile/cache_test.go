package reconcile

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stock-reconciler/core/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingLoader(calls *int32, delay time.Duration) LoadFunc {
	return func(ctx context.Context) (inventory.Table, error) {
		atomic.AddInt32(calls, 1)
		time.Sleep(delay)
		return table(map[string]inventory.Record{"A": rec("1", "5")}), nil
	}
}

func TestCache_GetOrLoad(t *testing.T) {
	var calls int32
	cache := NewCache(time.Minute)
	load := countingLoader(&calls, 0)

	first, err := cache.GetOrLoad(context.Background(), "inventory.csv", load)
	require.NoError(t, err)
	assert.True(t, first.Records["A"].ReorderNeeded, "snapshots carry current flags")

	_, err = cache.GetOrLoad(context.Background(), "inventory.csv", load)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cache.Invalidate("inventory.csv")
	_, err = cache.GetOrLoad(context.Background(), "inventory.csv", load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	var calls int32
	cache := NewCache(0)
	load := countingLoader(&calls, 0)

	for i := 0; i < 3; i++ {
		_, err := cache.GetOrLoad(context.Background(), "k", load)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCache_ConcurrentLoadsShareOneCall(t *testing.T) {
	var calls int32
	cache := NewCache(time.Minute)
	load := countingLoader(&calls, 20*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.GetOrLoad(context.Background(), "k", load)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	var calls int32
	cache := NewCache(time.Minute)
	failing := func(ctx context.Context) (inventory.Table, error) {
		atomic.AddInt32(&calls, 1)
		return inventory.Table{}, fmt.Errorf("store offline")
	}

	_, err := cache.GetOrLoad(context.Background(), "k", failing)
	assert.EqualError(t, err, "store offline")

	_, err = cache.GetOrLoad(context.Background(), "k", countingLoader(&calls, 0))
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_InvalidateDuringLoadDropsStaleResult(t *testing.T) {
	cache := NewCache(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	stale := func(ctx context.Context) (inventory.Table, error) {
		close(started)
		<-release
		return table(map[string]inventory.Record{"A": rec("1", "5")}), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := cache.GetOrLoad(context.Background(), "inventory.csv", stale)
		assert.NoError(t, err)
	}()

	<-started
	cache.Invalidate("inventory.csv")
	close(release)
	<-done

	var calls int32
	fresh := func(ctx context.Context) (inventory.Table, error) {
		atomic.AddInt32(&calls, 1)
		return table(map[string]inventory.Record{"A": rec("100", "5")}), nil
	}

	got, err := cache.GetOrLoad(context.Background(), "inventory.csv", fresh)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "100", got.Records["A"].Quantity.String())
	assert.False(t, got.Records["A"].ReorderNeeded)
}
