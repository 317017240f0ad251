// Package tenantcache provides a tenant-keyed cache for expensive per-tenant
// data such as compiled attribute schemas.
//
// A Cache holds at most one payload per tenant. It adds tenant-key semantics on
// top of a generic cache.Store and does nothing else: eviction and expiry are
// policies of the store.
//
//	store, _ := cache.NewLRUStore[tenantcache.Key, *Schema](1000)
//	schemas, _ := tenantcache.New(store,
//		tenantcache.WithName("scim-system-schema"),
//		tenantcache.WithLogger(log),
//	)
//
//	_ = schemas.Put(ctx, 5, schema)          // insert or replace, last write wins
//	s, ok, err := schemas.Get(ctx, 5)        // ok=false is a miss, err is a store fault
//	_ = schemas.Clear(ctx, 5)                // idempotent
//	_ = schemas.ClearAll(ctx)                // full invalidation
//
// GetOrLoad is the read-through path: concurrent misses for one tenant share a
// single loader call.
//
// # Configuration
//
// Config is parsed from TENANT_CACHE_* environment variables. NewFromConfig
// builds either a bounded in-memory LRU (default capacity 1000) or a Redis
// store, with an optional TTL (default 0, no expiry).
//
// # Observability
//
// Every operation emits an Event (cache.put, cache.hit, cache.miss, cache.clear,
// cache.clear_all, cache.load) to the configured Observers. LogObserver writes
// slog records; MetricsObserver exports Prometheus counters. Store failures
// are reported with Event.Err set.
//
// # Lifecycle
//
// Caches are constructed explicitly. Registry binds names to caches once per
// process and releases them on Close.
package tenantcache
