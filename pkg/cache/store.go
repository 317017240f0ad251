package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a generic key/value store that tenant-aware caches are built on.
//
// A miss is reported as (zero, false, nil). A non-nil error always means the
// store itself failed and must not be treated as a miss.
type Store[K comparable, V any] interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key K) (V, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key K, value V) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key K) error

	// Clear removes every key owned by the store.
	Clear(ctx context.Context) error
}

// Stats is a snapshot of in-memory store counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64 // capacity and TTL evictions, not explicit removals
	Size      int
	Capacity  int
}

// HitRate returns hits / (hits + misses), or 0 when there were no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// LRUStore adapts LRUCache to the Store interface.
// Its operations never return errors.
type LRUStore[K comparable, V any] struct {
	lru           *LRUCache[K, V]
	purgeInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
	closeOnce     sync.Once
}

// LRUOption configures an LRUStore.
type LRUOption[K comparable, V any] func(*LRUStore[K, V])

// WithTTL sets the entry lifetime. Zero disables expiry.
func WithTTL[K comparable, V any](ttl time.Duration) LRUOption[K, V] {
	return func(s *LRUStore[K, V]) { s.lru.SetTTL(ttl) }
}

// WithEvictCallback registers a callback for items leaving the store.
func WithEvictCallback[K comparable, V any](fn func(key K, value V)) LRUOption[K, V] {
	return func(s *LRUStore[K, V]) { s.lru.SetEvictCallback(fn) }
}

// WithClock replaces the time source used for TTL checks.
func WithClock[K comparable, V any](now func() time.Time) LRUOption[K, V] {
	return func(s *LRUStore[K, V]) { s.lru.SetClock(now) }
}

// WithPurgeInterval starts a background goroutine that drops expired entries
// every interval. Close stops it.
func WithPurgeInterval[K comparable, V any](interval time.Duration) LRUOption[K, V] {
	return func(s *LRUStore[K, V]) {
		if interval > 0 {
			s.purgeInterval = interval
		}
	}
}

// NewLRUStore creates an in-memory bounded store.
// Returns ErrInvalidCapacity if capacity is not positive.
func NewLRUStore[K comparable, V any](capacity int, opts ...LRUOption[K, V]) (*LRUStore[K, V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	s := &LRUStore[K, V]{lru: NewLRUCache[K, V](capacity)}
	for _, opt := range opts {
		opt(s)
	}
	if s.purgeInterval > 0 {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.purgeLoop()
	}
	return s, nil
}

func (s *LRUStore[K, V]) Get(_ context.Context, key K) (V, bool, error) {
	v, ok := s.lru.Get(key)
	return v, ok, nil
}

func (s *LRUStore[K, V]) Set(_ context.Context, key K, value V) error {
	s.lru.Put(key, value)
	return nil
}

func (s *LRUStore[K, V]) Delete(_ context.Context, key K) error {
	s.lru.Remove(key)
	return nil
}

func (s *LRUStore[K, V]) Clear(_ context.Context) error {
	s.lru.Clear()
	return nil
}

// Purge removes expired entries and returns how many were dropped.
func (s *LRUStore[K, V]) Purge() int {
	return s.lru.Purge()
}

// Len returns the number of stored entries.
func (s *LRUStore[K, V]) Len() int {
	return s.lru.Len()
}

// Stats returns a snapshot of hit/miss/eviction counters.
func (s *LRUStore[K, V]) Stats() Stats {
	return s.lru.Stats()
}

// Close stops the purge goroutine, if any, and waits for it to exit.
// Stored entries stay readable.
func (s *LRUStore[K, V]) Close() error {
	if s.stop == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

func (s *LRUStore[K, V]) purgeLoop() {
	ticker := time.NewTicker(s.purgeInterval)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-ticker.C:
			s.lru.Purge()
		case <-s.stop:
			return
		}
	}
}
