package tenantcache

import "errors"

var (
	// ErrNilStore is returned when a cache is created without a backing store.
	ErrNilStore = errors.New("tenant cache requires a store")

	// ErrNilPayload is returned by Put when the payload is a nil pointer, map, slice, func, chan or interface.
	ErrNilPayload = errors.New("tenant cache payload must not be nil")

	// ErrNilLoader is returned by GetOrLoad when no loader is given.
	ErrNilLoader = errors.New("tenant cache loader is nil")

	// ErrUnknownBackend is returned for an unsupported TENANT_CACHE_BACKEND value.
	ErrUnknownBackend = errors.New("unknown tenant cache backend")

	// ErrRedisClientRequired is returned when the redis backend is selected without a client.
	ErrRedisClientRequired = errors.New("redis backend requires a client")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid tenant cache config")

	// ErrTypeMismatch is returned when a registry name is already bound to a cache of another value type.
	ErrTypeMismatch = errors.New("tenant cache registered with a different value type")

	// ErrNilCache is returned when a registry factory returns no cache and no error.
	ErrNilCache = errors.New("tenant cache factory returned nil")

	// ErrRegistryClosed is returned after Registry.Close.
	ErrRegistryClosed = errors.New("tenant cache registry is closed")
)
