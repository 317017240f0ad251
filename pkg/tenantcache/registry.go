package tenantcache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry holds the process-wide tenant caches by name.
//
// Create it once at startup and pass it to the components that need caches.
// Each name is bound to exactly one cache for the registry's lifetime, even
// under concurrent first access. Close tears the registry down at shutdown.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]registered
	closed bool
}

type registered struct {
	cache    any
	clearAll func(context.Context) error
	close    func() error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]registered)}
}

// GetOrCreate returns the cache registered under name, calling create only if
// the name is unbound. create runs with the registry locked and must not use it.
// A failed create leaves the name unbound.
func GetOrCreate[V any](r *Registry, name string, create func() (*Cache[V], error)) (*Cache[V], error) {
	r.mu.RLock()
	reg, ok := r.caches[name]
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return nil, ErrRegistryClosed
	}
	if ok {
		return assertCache[V](name, reg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if reg, ok := r.caches[name]; ok {
		return assertCache[V](name, reg)
	}

	c, err := create()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNilCache
	}
	r.caches[name] = registered{cache: c, clearAll: c.ClearAll, close: c.Close}
	return c, nil
}

// Lookup returns the cache registered under name.
func Lookup[V any](r *Registry, name string) (*Cache[V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.caches[name]
	if !ok {
		return nil, false
	}
	c, ok := reg.cache.(*Cache[V])
	return c, ok
}

// Names returns the registered cache names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ClearAll invalidates every registered cache. All caches are attempted;
// failures are joined.
func (r *Registry) ClearAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var errs []error
	for name, reg := range r.caches {
		if err := reg.clearAll(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every registered cache and unbinds all names. Entries in
// shared backends are left intact. Later GetOrCreate calls fail with
// ErrRegistryClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for name, reg := range r.caches {
		if err := reg.close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	clear(r.caches)
	return errors.Join(errs...)
}

func assertCache[V any](name string, reg registered) (*Cache[V], error) {
	c, ok := reg.cache.(*Cache[V])
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %T", ErrTypeMismatch, name, reg.cache)
	}
	return c, nil
}
