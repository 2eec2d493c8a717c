// ABOUTME: Generic in-memory cache with TTL-based expiration
// ABOUTME: Thread-safe cache using sync.Map with a stoppable background sweep

package cache

import (
	"log/slog"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// Cache holds values of type T for a fixed TTL.
type Cache[T any] struct {
	store     sync.Map
	ttl       time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a cache and starts its sweep goroutine. Call Close to stop it.
func New[T any](ttl time.Duration) *Cache[T] {
	c := &Cache[T]{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go c.startCleanup(sweepInterval)
	return c
}

func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	e := val.(entry[T])
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[T]) Set(key string, value T) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL
func (c *Cache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	c.store.Store(key, entry[T]{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	})
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

func (c *Cache[T]) Clear(key string) {
	c.store.Delete(key)
}

// Len counts the stored entries, expired ones included until swept.
func (c *Cache[T]) Len() int {
	n := 0
	c.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close stops the sweep goroutine. It is safe to call more than once.
func (c *Cache[T]) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Cache[T]) sweep(now time.Time) {
	c.store.Range(func(key, val any) bool {
		if now.After(val.(entry[T]).expiresAt) {
			c.store.Delete(key)
		}
		return true
	})
}

func (c *Cache[T]) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.sweep(now)
		}
	}
}
