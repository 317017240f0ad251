package tenantcache

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/tenantcache/pkg/logger"
)

type contextKey struct{}

// WithTenantID stores the current tenant id in ctx.
func WithTenantID(ctx context.Context, id TenantID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// TenantIDFromContext returns the tenant id stored by WithTenantID.
func TenantIDFromContext(ctx context.Context) (TenantID, bool) {
	id, ok := ctx.Value(contextKey{}).(TenantID)
	return id, ok
}

// LoggerExtractor returns a logger.ContextExtractor adding tenant_id from context.
// Use it for application logs. Cache events already carry tenant_id, so a
// logger passed to WithLogger should not also install this extractor.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := TenantIDFromContext(ctx); ok {
			return logger.TenantID(int64(id)), true
		}
		return slog.Attr{}, false
	}
}
