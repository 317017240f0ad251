package scimschema

import (
	"context"

	"github.com/dmitrymomot/tenantcache/pkg/cache"
	"github.com/dmitrymomot/tenantcache/pkg/tenantcache"
)

// CacheName is the name the system schema cache registers under.
const CacheName = "SCIMSystemAttributeSchemaCache"

// SystemSchemaCache stores the system attribute schema of each tenant.
type SystemSchemaCache struct {
	cache *tenantcache.Cache[*AttributeSchema]
}

// NewSystemSchemaCache creates the schema cache over store. The cache is named
// CacheName unless opts set another name.
func NewSystemSchemaCache(store cache.Store[tenantcache.Key, *AttributeSchema], opts ...tenantcache.Option) (*SystemSchemaCache, error) {
	opts = append([]tenantcache.Option{tenantcache.WithName(CacheName)}, opts...)
	c, err := tenantcache.New(store, opts...)
	if err != nil {
		return nil, err
	}
	return &SystemSchemaCache{cache: c}, nil
}

// FromCache wraps an existing tenant cache, for example one held by a
// tenantcache.Registry.
func FromCache(c *tenantcache.Cache[*AttributeSchema]) (*SystemSchemaCache, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	return &SystemSchemaCache{cache: c}, nil
}

// Add stores a copy of schema for the tenant, replacing any previous one.
// Later changes to schema do not reach the cache.
func (c *SystemSchemaCache) Add(ctx context.Context, tenantID tenantcache.TenantID, schema *AttributeSchema) error {
	return c.cache.Put(ctx, tenantID, schema.Clone())
}

// ByTenant returns a copy of the cached schema of a tenant, so callers may
// modify it freely with either backend. A missing schema is reported as
// (nil, false, nil).
func (c *SystemSchemaCache) ByTenant(ctx context.Context, tenantID tenantcache.TenantID) (*AttributeSchema, bool, error) {
	schema, ok, err := c.cache.Get(ctx, tenantID)
	if err != nil || !ok {
		return nil, ok, err
	}
	return schema.Clone(), true, nil
}

// ClearByTenant drops the cached schema of a tenant.
func (c *SystemSchemaCache) ClearByTenant(ctx context.Context, tenantID tenantcache.TenantID) error {
	return c.cache.Clear(ctx, tenantID)
}

// Cache exposes the underlying tenant cache. Values read through it are the
// stored entries themselves and must not be modified.
func (c *SystemSchemaCache) Cache() *tenantcache.Cache[*AttributeSchema] {
	return c.cache
}
