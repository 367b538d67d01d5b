package cache

import (
	"sync"
	"time"
)

// Config holds the configuration for the cache.
type Config struct {
	// DefaultTTL is the time-to-live applied to every entry.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are swept. Zero disables
	// the background sweeper; expired entries are then dropped lazily on Get.
	CleanupInterval time.Duration
	// MaxItems bounds the cache size. When full, Set evicts an arbitrary
	// entry to make room. Zero means unbounded.
	MaxItems int
	// OnEviction, if set, is called for entries removed by sweep or eviction.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is an in-memory TTL cache safe for concurrent use.
type Cache struct {
	config Config

	mu    sync.RWMutex
	items map[string]item

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a new cache and starts its cleanup goroutine when a cleanup
// interval is configured.
func New(config Config) *Cache {
	c := &Cache{
		config: config,
		items:  make(map[string]item),
		stop:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.cleanupLoop()
	}
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		c.Delete(key)
		return nil, false
	}
	return it.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		if _, exists := c.items[key]; !exists {
			c.evictOneLocked()
		}
	}
	c.items[key] = item{
		value:     value,
		expiresAt: time.Now().Add(c.config.DefaultTTL),
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len returns the current number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine. The cache stays usable afterwards.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// evictOneLocked removes the entry closest to expiry. Caller holds mu.
func (c *Cache) evictOneLocked() {
	var victim string
	var victimExpiry time.Time
	for k, it := range c.items {
		if victim == "" || it.expiresAt.Before(victimExpiry) {
			victim = k
			victimExpiry = it.expiresAt
		}
	}
	if victim == "" {
		return
	}
	it := c.items[victim]
	delete(c.items, victim)
	if c.config.OnEviction != nil {
		c.config.OnEviction(victim, it.value)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
			if c.config.OnEviction != nil {
				c.config.OnEviction(k, it.value)
			}
		}
	}
}
