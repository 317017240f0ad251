package tenantcache

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/tenantcache/pkg/logger"
)

// Op names a cache operation reported to observers.
type Op string

const (
	OpGet      Op = "cache.get" // failed lookups only; successful ones are hit or miss
	OpPut      Op = "cache.put"
	OpHit      Op = "cache.hit"
	OpMiss     Op = "cache.miss"
	OpClear    Op = "cache.clear"
	OpClearAll Op = "cache.clear_all"
	OpLoad     Op = "cache.load"
)

// Event describes one completed cache operation.
// Err is set when the backing store or loader failed; the operation had no effect.
type Event struct {
	Op       Op
	Cache    string
	Instance string
	TenantID TenantID // unset for OpClearAll
	Duration time.Duration
	Err      error
}

// Observer receives cache events. Implementations must be safe for concurrent use
// and must not call back into the cache.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

// NoopObserver drops every event.
type NoopObserver struct{}

func (NoopObserver) Observe(context.Context, Event) {}

type multiObserver []Observer

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	clean := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			clean = append(clean, o)
		}
	}
	switch len(clean) {
	case 0:
		return NoopObserver{}
	case 1:
		return clean[0]
	}
	return clean
}

func (m multiObserver) Observe(ctx context.Context, e Event) {
	for _, o := range m {
		o.Observe(ctx, e)
	}
}

// LogObserver writes cache events as structured log records.
// Routine traffic is logged at debug, full invalidation at info, failures at error.
type LogObserver struct {
	log *slog.Logger
}

// NewLogObserver creates a LogObserver. A nil logger falls back to slog.Default.
func NewLogObserver(log *slog.Logger) *LogObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LogObserver{log: log.With(logger.Component("tenantcache"))}
}

func (o *LogObserver) Observe(ctx context.Context, e Event) {
	attrs := []slog.Attr{
		logger.Event(string(e.Op)),
		logger.CacheName(e.Cache),
		logger.CacheInstance(e.Instance),
	}
	if e.Op != OpClearAll {
		attrs = append(attrs, logger.TenantID(int64(e.TenantID)))
	}
	if e.Duration > 0 {
		attrs = append(attrs, logger.Duration(e.Duration))
	}

	if e.Err != nil {
		attrs = append(attrs, logger.Error(e.Err))
		o.log.LogAttrs(ctx, slog.LevelError, "cache operation failed", attrs...)
		return
	}

	switch e.Op {
	case OpPut:
		o.log.LogAttrs(ctx, slog.LevelDebug, "cache entry stored", attrs...)
	case OpHit:
		o.log.LogAttrs(ctx, slog.LevelDebug, "cache hit", attrs...)
	case OpMiss:
		o.log.LogAttrs(ctx, slog.LevelDebug, "cache entry not found", attrs...)
	case OpClear:
		o.log.LogAttrs(ctx, slog.LevelDebug, "cache entry cleared", attrs...)
	case OpClearAll:
		o.log.LogAttrs(ctx, slog.LevelInfo, "cache cleared", attrs...)
	case OpLoad:
		o.log.LogAttrs(ctx, slog.LevelDebug, "cache entry loaded", attrs...)
	}
}
