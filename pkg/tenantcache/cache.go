package tenantcache

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/tenantcache/pkg/cache"
)

// DefaultName is used when no name is configured.
const DefaultName = "tenant-cache"

// LoaderFunc computes the payload of a tenant on a cache miss.
type LoaderFunc[V any] func(ctx context.Context, id TenantID) (V, error)

// Cache stores at most one payload per tenant on top of a generic store.
//
// Get reports a miss as (zero, false, nil). A non-nil error from Get always
// comes from the backing store and is never reported as a miss.
type Cache[V any] struct {
	name     string
	instance string
	store    cache.Store[Key, V]
	observer Observer
	loads    singleflight.Group
}

type options struct {
	name      string
	observers []Observer
}

// Option configures a Cache.
type Option func(*options)

// WithName sets the cache name used in events, logs and metric labels.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithObserver adds an event observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithLogger adds a LogObserver writing to log.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.observers = append(o.observers, NewLogObserver(log))
		}
	}
}

// New creates a tenant cache over store.
func New[V any](store cache.Store[Key, V], opts ...Option) (*Cache[V], error) {
	if store == nil {
		return nil, ErrNilStore
	}
	o := options{name: DefaultName}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		name:     o.name,
		instance: uuid.NewString(),
		store:    store,
		observer: Observers(o.observers...),
	}, nil
}

// Name returns the configured cache name.
func (c *Cache[V]) Name() string { return c.name }

// InstanceID identifies this cache instance in logs. It changes on every New.
func (c *Cache[V]) InstanceID() string { return c.instance }

// Put inserts or replaces the payload of a tenant. The previous payload, if any,
// is discarded.
func (c *Cache[V]) Put(ctx context.Context, id TenantID, payload V) error {
	if isNil(payload) {
		return ErrNilPayload
	}
	err := c.store.Set(ctx, KeyFor(id), payload)
	c.emit(ctx, OpPut, id, 0, err)
	return err
}

// Get returns the payload of a tenant. It never computes a missing payload.
// With an in-memory store a pointer payload is the stored entry itself and
// must be treated as read-only.
func (c *Cache[V]) Get(ctx context.Context, id TenantID) (V, bool, error) {
	v, ok, err := c.store.Get(ctx, KeyFor(id))
	switch {
	case err != nil:
		c.emit(ctx, OpGet, id, 0, err)
		var zero V
		return zero, false, err
	case ok:
		c.emit(ctx, OpHit, id, 0, nil)
	default:
		c.emit(ctx, OpMiss, id, 0, nil)
	}
	return v, ok, nil
}

// Clear removes the payload of a tenant. Clearing an absent tenant is a no-op.
func (c *Cache[V]) Clear(ctx context.Context, id TenantID) error {
	err := c.store.Delete(ctx, KeyFor(id))
	c.emit(ctx, OpClear, id, 0, err)
	return err
}

// ClearAll removes every payload held by the backing store.
func (c *Cache[V]) ClearAll(ctx context.Context) error {
	err := c.store.Clear(ctx)
	c.emit(ctx, OpClearAll, 0, 0, err)
	return err
}

// GetOrLoad returns the cached payload or computes it with load and stores it.
// Concurrent misses for the same tenant share a single load call, run with the
// context of the first caller. Load errors are returned and nothing is cached.
func (c *Cache[V]) GetOrLoad(ctx context.Context, id TenantID, load LoaderFunc[V]) (V, error) {
	var zero V
	if load == nil {
		return zero, ErrNilLoader
	}

	if v, ok, err := c.Get(ctx, id); err != nil || ok {
		return v, err
	}

	res, err, _ := c.loads.Do(id.String(), func() (any, error) {
		// another caller may have stored it while we waited
		if v, ok, err := c.store.Get(ctx, KeyFor(id)); err != nil || ok {
			return v, err
		}

		start := time.Now()
		v, err := load(ctx, id)
		c.emit(ctx, OpLoad, id, time.Since(start), err)
		if err != nil {
			return zero, err
		}
		if err := c.Put(ctx, id, v); err != nil {
			return zero, err
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Close releases resources held by the backing store, if it has any.
// It does not clear shared entries.
func (c *Cache[V]) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Cache[V]) emit(ctx context.Context, op Op, id TenantID, d time.Duration, err error) {
	c.observer.Observe(ctx, Event{
		Op:       op,
		Cache:    c.name,
		Instance: c.instance,
		TenantID: id,
		Duration: d,
		Err:      err,
	})
}

func isNil[V any](v V) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
