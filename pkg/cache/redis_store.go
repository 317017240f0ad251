package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanBatchSize = 500

// RedisStore keeps encoded values in Redis under a fixed key prefix.
// Clear only touches keys under that prefix.
type RedisStore[K comparable, V any] struct {
	db            redis.UniversalClient
	prefix        string
	ttl           time.Duration
	codec         Codec[V]
	keyFunc       func(K) string
	scanBatchSize int64
}

// RedisOption configures a RedisStore.
type RedisOption[K comparable, V any] func(*RedisStore[K, V])

// WithRedisTTL sets the expiration applied on Set. Zero means no expiration.
func WithRedisTTL[K comparable, V any](ttl time.Duration) RedisOption[K, V] {
	return func(s *RedisStore[K, V]) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCodec overrides the default JSON codec.
func WithCodec[K comparable, V any](codec Codec[V]) RedisOption[K, V] {
	return func(s *RedisStore[K, V]) {
		if codec != nil {
			s.codec = codec
		}
	}
}

// WithKeyFunc overrides how keys are rendered. Defaults to fmt.Sprint.
func WithKeyFunc[K comparable, V any](fn func(K) string) RedisOption[K, V] {
	return func(s *RedisStore[K, V]) {
		if fn != nil {
			s.keyFunc = fn
		}
	}
}

// WithScanBatchSize sets the COUNT hint used while clearing.
func WithScanBatchSize[K comparable, V any](n int64) RedisOption[K, V] {
	return func(s *RedisStore[K, V]) {
		if n > 0 {
			s.scanBatchSize = n
		}
	}
}

// NewRedisStore creates a store backed by the given client.
// Every key is written as "<prefix>:<key>".
func NewRedisStore[K comparable, V any](client redis.UniversalClient, prefix string, opts ...RedisOption[K, V]) (*RedisStore[K, V], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	s := &RedisStore[K, V]{
		db:            client,
		prefix:        prefix,
		codec:         JSONCodec[V]{},
		keyFunc:       func(k K) string { return fmt.Sprint(k) },
		scanBatchSize: defaultScanBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *RedisStore[K, V]) key(k K) string {
	return s.prefix + ":" + s.keyFunc(k)
}

// matchPattern is the SCAN pattern for keys under the prefix. Glob
// metacharacters in the prefix are escaped so they match literally.
//
// The pattern still matches nested prefixes: a store with prefix "a" sees the
// keys of a store with prefix "a:b". Callers sharing a database must keep
// prefixes free of ':' or otherwise non-overlapping.
func (s *RedisStore[K, V]) matchPattern() string {
	return globEscaper.Replace(s.prefix) + ":*"
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// Get maps redis.Nil to a miss. Any other failure is returned wrapped in ErrStoreFailure.
func (s *RedisStore[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	data, err := s.db.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, errors.Join(ErrStoreFailure, err)
	}
	v, err := s.codec.Unmarshal(data)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (s *RedisStore[K, V]) Set(ctx context.Context, key K, value V) error {
	data, err := s.codec.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.db.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *RedisStore[K, V]) Delete(ctx context.Context, key K) error {
	if err := s.db.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Clear deletes every key under the store prefix using SCAN to avoid blocking Redis.
func (s *RedisStore[K, V]) Clear(ctx context.Context) error {
	var cursor uint64
	match := s.matchPattern()
	for {
		batch, next, err := s.db.Scan(ctx, cursor, match, s.scanBatchSize).Result()
		if err != nil {
			return errors.Join(ErrStoreFailure, err)
		}
		if len(batch) > 0 {
			if err := s.db.Del(ctx, batch...).Err(); err != nil {
				return errors.Join(ErrStoreFailure, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Keys returns the raw Redis keys currently held under the prefix.
func (s *RedisStore[K, V]) Keys(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	match := s.matchPattern()
	for {
		batch, next, err := s.db.Scan(ctx, cursor, match, s.scanBatchSize).Result()
		if err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}
