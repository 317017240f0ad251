// Package cache provides generic key/value stores used as the base layer for
// tenant-aware caches.
//
// Every store satisfies Store[K, V]:
//
//	type Store[K comparable, V any] interface {
//		Get(ctx context.Context, key K) (V, bool, error)
//		Set(ctx context.Context, key K, value V) error
//		Delete(ctx context.Context, key K) error
//		Clear(ctx context.Context) error
//	}
//
// A miss is (zero, false, nil). An error means the store failed and is never
// reported as a miss.
//
// # In-memory store
//
// LRUStore wraps LRUCache, a thread-safe LRU cache with an optional TTL:
//
//	store, err := cache.NewLRUStore[int64, *Schema](1000,
//		cache.WithTTL[int64, *Schema](15*time.Minute),
//	)
//
// When the store is full the least recently used entry is evicted. Expired
// entries are reported as absent and removed on access; Purge drops all of
// them at once. WithPurgeInterval runs Purge in a background goroutine until
// Close is called. Stats returns hit, miss and eviction counters.
//
// Updates never mutate a stored entry in place. A Put swaps in a new entry so
// concurrent readers observe either the old or the new value.
//
// # Redis store
//
// RedisStore keeps values encoded by a Codec (JSON via json-iterator by
// default) under "<prefix>:<key>":
//
//	store, err := cache.NewRedisStore[int64, *Schema](client, "scim-schema",
//		cache.WithRedisTTL[int64, *Schema](time.Hour),
//	)
//
// redis.Nil becomes a miss. Other failures are joined with ErrStoreFailure and
// decoding failures with ErrCodec. Clear scans and deletes only keys under the
// prefix, so several stores can share one database.
package cache
