// Package logger builds *slog.Logger instances for tenantcache components.
//
// New creates a logger configured by Option functions: output format (text or
// json), minimum level, static attributes, and ContextExtractor callbacks that
// inject values stored in context.Context on every record.
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "schema-service"),
//		logger.WithContextExtractors(tenantcache.LoggerExtractor()),
//	)
//	log.DebugContext(ctx, "cache hit", logger.CacheName("scim"), logger.TenantID(5))
//
// Attribute helpers (TenantID, CacheName, Event, Error...) keep key names
// consistent across packages. Error returns an empty Attr for a nil error, so
// it can be passed without a nil check.
package logger
