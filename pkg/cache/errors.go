package cache

import "errors"

var (
	// ErrInvalidCapacity is returned when a bounded store is created with a non-positive capacity.
	ErrInvalidCapacity = errors.New("cache capacity must be positive")

	// ErrStoreFailure wraps errors returned by a remote backend.
	ErrStoreFailure = errors.New("cache store failure")

	// ErrCodec is returned when a value cannot be encoded or decoded.
	ErrCodec = errors.New("cache codec failure")

	// ErrNilClient is returned when a remote store is created without a client.
	ErrNilClient = errors.New("cache store client is nil")
)
