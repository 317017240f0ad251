package scimschema

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/tenantcache/pkg/tenantcache"
)

// BuildFunc assembles the system schema of a tenant, typically from the user
// store configuration. It is the expensive path the cache exists to avoid.
type BuildFunc func(ctx context.Context, tenantID tenantcache.TenantID) (*AttributeSchema, error)

// Provider returns tenant system schemas, building them only on a cache miss.
type Provider struct {
	cache *SystemSchemaCache
	build BuildFunc
}

// NewProvider creates a Provider backed by c.
func NewProvider(c *SystemSchemaCache, build BuildFunc) (*Provider, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if build == nil {
		return nil, ErrNilBuilder
	}
	return &Provider{cache: c, build: build}, nil
}

// SystemSchema returns a copy of the schema of a tenant. Concurrent requests
// for a tenant that is not cached trigger a single build. Built schemas are
// validated and copied before they are cached; invalid or failed builds are
// not cached.
func (p *Provider) SystemSchema(ctx context.Context, tenantID tenantcache.TenantID) (*AttributeSchema, error) {
	schema, err := p.cache.cache.GetOrLoad(ctx, tenantID, func(ctx context.Context, id tenantcache.TenantID) (*AttributeSchema, error) {
		schema, err := p.build(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("build schema for tenant %d: %w", id, err)
		}
		if schema == nil {
			return nil, fmt.Errorf("%w: builder returned no schema for tenant %d", ErrInvalidSchema, id)
		}
		if err := schema.Validate(); err != nil {
			return nil, err
		}
		return schema.Clone(), nil
	})
	if err != nil {
		return nil, err
	}
	return schema.Clone(), nil
}

// Invalidate drops the cached schema of a tenant so the next SystemSchema call
// rebuilds it. Call it when the tenant's user store configuration changes or
// the tenant is removed.
func (p *Provider) Invalidate(ctx context.Context, tenantID tenantcache.TenantID) error {
	return p.cache.ClearByTenant(ctx, tenantID)
}
