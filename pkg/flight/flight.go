// Package flight coalesces concurrent lookups for the same key and caches
// results for a fixed TTL. Used to keep repeated word-definition lookups from
// fanning out into duplicate vendor calls.
package flight

import (
	"sync"
	"time"
)

type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	finished map[K]entry[V]
	pending  map[K]*call[V]
	work     func(K) (V, error)
	ttl      time.Duration
	now      func() time.Time
}

type entry[V any] struct {
	val      V
	deadline time.Time // zero means never expires
}

type call[V any] struct {
	val  V
	err  error
	done chan struct{}
}

// New builds a cache around work. ttl <= 0 caches results forever.
func New[K comparable, V any](ttl time.Duration, work func(K) (V, error)) *Cache[K, V] {
	return &Cache[K, V]{
		finished: make(map[K]entry[V]),
		pending:  make(map[K]*call[V]),
		work:     work,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a fresh cached value, joins an in-flight computation for the
// same key, or computes the value itself. Errors are never cached.
func (c *Cache[K, V]) Get(k K) (V, error) {
	c.mu.Lock()

	if e, ok := c.finished[k]; ok {
		if e.deadline.IsZero() || c.now().Before(e.deadline) {
			c.mu.Unlock()
			return e.val, nil
		}
		delete(c.finished, k)
	}

	if p, ok := c.pending[k]; ok {
		c.mu.Unlock()
		<-p.done
		return p.val, p.err
	}

	j := &call[V]{done: make(chan struct{})}
	c.pending[k] = j
	c.mu.Unlock()

	j.val, j.err = c.work(k)

	c.mu.Lock()
	if j.err == nil {
		e := entry[V]{val: j.val}
		if c.ttl > 0 {
			e.deadline = c.now().Add(c.ttl)
		}
		c.finished[k] = e
	}
	delete(c.pending, k)
	c.mu.Unlock()
	close(j.done)

	return j.val, j.err
}

// Forget drops any cached value for k.
func (c *Cache[K, V]) Forget(k K) {
	c.mu.Lock()
	delete(c.finished, k)
	c.mu.Unlock()
}
