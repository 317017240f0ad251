package tenantcache

import (
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantcache/pkg/cache"
)

// Supported backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and sizes the backing store. The eviction policy is explicit:
// a bounded LRU of Capacity entries for the memory backend, plus an optional
// TTL applied by either backend.
type Config struct {
	Name          string        `env:"TENANT_CACHE_NAME" envDefault:"tenant-cache"`
	Backend       string        `env:"TENANT_CACHE_BACKEND" envDefault:"memory"`
	Capacity      int           `env:"TENANT_CACHE_CAPACITY" envDefault:"1000"`
	TTL           time.Duration `env:"TENANT_CACHE_TTL" envDefault:"0s"`            // 0 disables expiry
	PurgeInterval time.Duration `env:"TENANT_CACHE_PURGE_INTERVAL" envDefault:"1m"` // memory backend, only with TTL
	KeyPrefix     string        `env:"TENANT_CACHE_KEY_PREFIX" envDefault:"tenantcache"`
}

// reservedKeyChars may not appear in a name or key prefix. ':' separates key
// segments, so a name "a" would otherwise own the keys of a cache named "a:b";
// the rest are SCAN glob metacharacters.
const reservedKeyChars = `:*?[]\`

// DefaultConfig returns the same values as the envDefault tags.
func DefaultConfig() Config {
	return Config{
		Name:          DefaultName,
		Backend:       BackendMemory,
		Capacity:      1000,
		PurgeInterval: time.Minute,
		KeyPrefix:     "tenantcache",
	}
}

// Validate reports the first invalid field wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidConfig)
	case strings.ContainsAny(c.Name, reservedKeyChars):
		return fmt.Errorf("%w: name %q contains one of %q", ErrInvalidConfig, c.Name, reservedKeyChars)
	case c.TTL < 0:
		return fmt.Errorf("%w: negative ttl %s", ErrInvalidConfig, c.TTL)
	}

	switch c.Backend {
	case BackendMemory:
		if c.Capacity <= 0 {
			return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
		}
		if c.PurgeInterval < 0 {
			return fmt.Errorf("%w: negative purge interval %s", ErrInvalidConfig, c.PurgeInterval)
		}
	case BackendRedis:
		if c.KeyPrefix == "" {
			return fmt.Errorf("%w: key prefix is empty", ErrInvalidConfig)
		}
		if strings.ContainsAny(c.KeyPrefix, reservedKeyChars) {
			return fmt.Errorf("%w: key prefix %q contains one of %q", ErrInvalidConfig, c.KeyPrefix, reservedKeyChars)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}

// RedisPrefix is the key prefix of the redis backend: "<KeyPrefix>:<Name>".
func (c Config) RedisPrefix() string {
	return c.KeyPrefix + ":" + c.Name
}

// NewStore builds the backing store described by cfg. client is only used by
// the redis backend.
func NewStore[V any](cfg Config, client redis.UniversalClient) (cache.Store[Key, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendRedis:
		if client == nil {
			return nil, ErrRedisClientRequired
		}
		store, err := cache.NewRedisStore[Key, V](client, cfg.RedisPrefix(),
			cache.WithRedisTTL[Key, V](cfg.TTL),
			cache.WithKeyFunc[Key, V](Key.String),
		)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		opts := []cache.LRUOption[Key, V]{cache.WithTTL[Key, V](cfg.TTL)}
		if cfg.TTL > 0 {
			opts = append(opts, cache.WithPurgeInterval[Key, V](cfg.PurgeInterval))
		}
		store, err := cache.NewLRUStore[Key, V](cfg.Capacity, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

// NewFromConfig builds the store described by cfg and wraps it in a Cache
// named cfg.Name. Options given later override the name.
func NewFromConfig[V any](cfg Config, client redis.UniversalClient, opts ...Option) (*Cache[V], error) {
	store, err := NewStore[V](cfg, client)
	if err != nil {
		return nil, err
	}
	return New(store, append([]Option{WithName(cfg.Name)}, opts...)...)
}
