package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type entry struct {
	data     string
	expireAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// LocalCache is an in-process key/value store with per-key TTLs.
type LocalCache struct {
	mu     sync.RWMutex
	kv     map[string]entry
	stopGC chan struct{}
	once   sync.Once
}

// NewCache creates a LocalCache and starts its background sweeper.
func NewCache(cfg Config) *LocalCache {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &LocalCache{kv: make(map[string]entry), stopGC: make(chan struct{})}
	go c.runGC(interval)
	return c
}

// Close stops the background sweeper. It is safe to call more than once.
func (c *LocalCache) Close() {
	c.once.Do(func() { close(c.stopGC) })
}

func (c *LocalCache) runGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.kv {
				if e.expired(now) {
					delete(c.kv, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopGC:
			return
		}
	}
}

// lookup returns the live entry for key, dropping it if it has expired.
func (c *LocalCache) lookup(key string) (entry, bool) {
	c.mu.RLock()
	e, ok := c.kv[key]
	c.mu.RUnlock()
	if !ok {
		return entry{}, false
	}
	if e.expired(time.Now()) {
		c.mu.Lock()
		delete(c.kv, key)
		c.mu.Unlock()
		return entry{}, false
	}
	return e, true
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{data: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.kv[key] = e
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.kv, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.lookup(key)
	return ok, nil
}

// Expire resets the TTL of an existing key. A non-positive ttl removes the expiry.
func (c *LocalCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.kv[key]
	if !ok {
		return ErrNotFound
	}
	if e.expired(now) {
		delete(c.kv, key)
		return ErrNotFound
	}
	e.expireAt = time.Time{}
	if ttl > 0 {
		e.expireAt = now.Add(ttl)
	}
	c.kv[key] = e
	return nil
}

// Len returns the number of stored keys, including ones not yet swept.
func (c *LocalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.kv)
}
