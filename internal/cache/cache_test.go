package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](2, 0)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so that b becomes the eviction candidate.
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, string](4, time.Minute).WithClock(clock.Now)

	c.Set("k", "v")
	clock.Advance(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestCache_SetRefreshesExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, int](4, time.Minute).WithClock(clock.Now)

	c.Set("k", 1)
	clock.Advance(45 * time.Second)
	c.Set("k", 2)
	clock.Advance(45 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_DeleteAndPurge(t *testing.T) {
	c := New[int, int](8, 0)
	for i := 0; i < 5; i++ {
		c.Set(i, i*i)
	}

	assert.True(t, c.Delete(3))
	assert.False(t, c.Delete(3))
	assert.Equal(t, 4, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
	_, ok := c.Get(0)
	assert.False(t, ok)
}

func TestCache_MinimumCapacity(t *testing.T) {
	c := New[string, int](0, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Stats(t *testing.T) {
	c := New[string, int](2, 0)
	c.Set("a", 1)
	_, _ = c.Get("a")
	_, _ = c.Get("b")

	assert.Equal(t, Stats{Hits: 1, Misses: 1, Size: 1}, c.Stats())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[string, int](16, time.Hour)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*i)%32)
				c.Set(key, i)
				_, _ = c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
