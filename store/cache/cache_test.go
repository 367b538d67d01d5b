package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetGetDelete(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	require.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(Config{DefaultTTL: 10 * time.Millisecond})
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("a")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestCacheMaxItemsEviction(t *testing.T) {
	evicted := make(map[string]any)
	c := New(Config{
		DefaultTTL: time.Minute,
		MaxItems:   2,
		OnEviction: func(key string, value any) { evicted[key] = value },
	})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	require.Equal(t, 2, c.Len())
	require.Len(t, evicted, 1)

	// Overwriting an existing key does not evict.
	c.Set("c", 4)
	require.Equal(t, 2, c.Len())
	require.Len(t, evicted, 1)
}
