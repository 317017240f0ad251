// Package scimschema caches the SCIM system attribute schema of each tenant.
//
// SystemSchemaCache is a typed view over tenantcache.Cache. Provider adds
// read-through loading on top of it:
//
//	schemas, _ := scimschema.NewSystemSchemaCache(store, tenantcache.WithLogger(log))
//	provider, _ := scimschema.NewProvider(schemas, buildFromUserStore)
//
//	schema, err := provider.SystemSchema(ctx, tenantID)
//
// Call Provider.Invalidate when a tenant's attribute configuration changes.
package scimschema
