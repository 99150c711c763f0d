package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedServesWithinTTL(t *testing.T) {
	clock := newFakeClock()
	observer := newCountingObserver()
	cache := NewReadCache(30*time.Second, clock.Now, observer)

	loads := 0
	load := func() ([]string, error) {
		loads++
		return []string{"a"}, nil
	}

	_, err := Cached(cache, CacheTasks, "u1", load)
	require.NoError(t, err)
	clock.Advance(29 * time.Second)
	_, err = Cached(cache, CacheTasks, "u1", load)
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, observer.hits)
	assert.Equal(t, 1, observer.misses)
	assert.True(t, cache.IsValid(CacheTasks, "u1"))
}

func TestCachedReloadsAfterTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewReadCache(30*time.Second, clock.Now, nil)

	loads := 0
	load := func() (int, error) {
		loads++
		return loads, nil
	}

	_, _ = Cached(cache, CacheStats, "u1", load)
	clock.Advance(30 * time.Second)
	assert.False(t, cache.IsValid(CacheStats, "u1"))

	v, err := Cached(cache, CacheStats, "u1", load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestInvalidateOwnerIsExact(t *testing.T) {
	cache := NewReadCache(0, nil, nil)
	assert.Equal(t, DefaultCacheTTL, cache.TTL())

	for _, owner := range []string{"1", "12", "21"} {
		owner := owner
		_, _ = Cached(cache, CacheTasks, owner, func() (string, error) { return owner, nil })
		_, _ = Cached(cache, CacheCategories, owner, func() (string, error) { return owner, nil })
	}

	cache.InvalidateOwner("1")

	assert.False(t, cache.IsValid(CacheTasks, "1"))
	assert.False(t, cache.IsValid(CacheCategories, "1"))
	assert.True(t, cache.IsValid(CacheTasks, "12"))
	assert.True(t, cache.IsValid(CacheTasks, "21"))
	assert.Equal(t, 4, cache.Len())
}

func TestCachedDropsResultRacingInvalidation(t *testing.T) {
	cache := NewReadCache(time.Minute, nil, nil)

	v, err := Cached(cache, CacheTasks, "u1", func() (string, error) {
		cache.InvalidateOwner("u1")
		return "stale", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", v)
	assert.False(t, cache.IsValid(CacheTasks, "u1"))
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	cache := NewReadCache(time.Minute, nil, nil)
	boom := errors.New("boom")

	_, err := Cached(cache, CacheTasks, "u1", func() ([]string, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, cache.IsValid(CacheTasks, "u1"))
}

func TestClear(t *testing.T) {
	cache := NewReadCache(time.Minute, nil, nil)
	_, _ = Cached(cache, CacheTasks, "u1", func() (int, error) { return 1, nil })
	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}
