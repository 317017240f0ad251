package tenantcache_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantcache/pkg/logger"
	"github.com/dmitrymomot/tenantcache/pkg/tenantcache"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestLogObserver(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithLevel(slog.LevelDebug),
		logger.WithContextExtractors(tenantcache.LoggerExtractor()),
	)
	c := newCache[string](t, tenantcache.WithName("scim"), tenantcache.WithLogger(log))
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, 5, "schemaA"))
	_, _, _ = c.Get(ctx, 5)
	_, _, _ = c.Get(ctx, 7)
	require.NoError(t, c.Clear(ctx, 5))
	require.NoError(t, c.ClearAll(ctx))

	lines := logLines(t, buf)
	require.Len(t, lines, 5)

	wantEvents := []string{"cache.put", "cache.hit", "cache.miss", "cache.clear", "cache.clear_all"}
	wantLevels := []string{"DEBUG", "DEBUG", "DEBUG", "DEBUG", "INFO"}
	for i, line := range lines {
		assert.Equal(t, wantEvents[i], line["event"])
		assert.Equal(t, wantLevels[i], line["level"])
		assert.Equal(t, "scim", line["cache"])
		assert.Equal(t, c.InstanceID(), line["cache_instance"])
		assert.Equal(t, "tenantcache", line["component"])
	}
	assert.EqualValues(t, 5, lines[0]["tenant_id"])
	assert.EqualValues(t, 7, lines[2]["tenant_id"])
	assert.NotContains(t, lines[4], "tenant_id")
}

func TestLogObserver_Failures(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	obs := tenantcache.NewLogObserver(logger.New(logger.WithOutput(buf)))

	obs.Observe(context.Background(), tenantcache.Event{
		Op:       tenantcache.OpGet,
		Cache:    "scim",
		TenantID: 3,
		Err:      errors.New("redis down"),
	})
	obs.Observe(context.Background(), tenantcache.Event{Op: tenantcache.OpMiss, Cache: "scim"})

	lines := logLines(t, buf)
	require.Len(t, lines, 1, "debug events are filtered at info level")
	assert.Equal(t, "ERROR", lines[0]["level"])
	assert.Equal(t, "cache operation failed", lines[0]["msg"])
	assert.Equal(t, "redis down", lines[0]["error"])
}

func TestLogObserver_LoadDuration(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	obs := tenantcache.NewLogObserver(logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug)))
	obs.Observe(context.Background(), tenantcache.Event{Op: tenantcache.OpLoad, Cache: "scim", Duration: time.Second})

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "cache entry loaded", lines[0]["msg"])
	assert.EqualValues(t, time.Second, lines[0]["duration"])
}

func TestLogObserver_DefaultLogger(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, tenantcache.NewLogObserver(nil))
}

func TestMetricsObserver(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := tenantcache.NewMetricsObserver("")
	require.NoError(t, metrics.Register(reg))
	assert.Error(t, metrics.Register(reg), "double registration is reported")

	c := newCache[string](t, tenantcache.WithName("scim"), tenantcache.WithObserver(metrics))
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, 1, "a"))
	_, _, _ = c.Get(ctx, 1)
	_, _, _ = c.Get(ctx, 2)
	_, _, _ = c.Get(ctx, 3)
	_, err := c.GetOrLoad(ctx, 4, func(context.Context, tenantcache.TenantID) (string, error) {
		return "loaded", nil
	})
	require.NoError(t, err)

	metrics.Observe(ctx, tenantcache.Event{Op: tenantcache.OpGet, Cache: "scim", Err: errors.New("x")})

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)

	collectors := metrics.Collectors()
	require.Len(t, collectors, 3)

	ops := collectors[0].(*prometheus.CounterVec)
	assert.Equal(t, 2.0, testutil.ToFloat64(ops.WithLabelValues("scim", "cache.put")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("scim", "cache.hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(ops.WithLabelValues("scim", "cache.miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("scim", "cache.load")))

	failures := collectors[1].(*prometheus.CounterVec)
	assert.Equal(t, 1.0, testutil.ToFloat64(failures.WithLabelValues("scim", "cache.get")))

	assert.Equal(t, 1, testutil.CollectAndCount(collectors[2]))
}

func TestObservers(t *testing.T) {
	t.Parallel()

	var got []string
	record := func(name string) tenantcache.Observer {
		return tenantcache.ObserverFunc(func(_ context.Context, e tenantcache.Event) {
			got = append(got, name+":"+string(e.Op))
		})
	}

	obs := tenantcache.Observers(record("a"), nil, record("b"))
	obs.Observe(context.Background(), tenantcache.Event{Op: tenantcache.OpPut})
	assert.Equal(t, []string{"a:cache.put", "b:cache.put"}, got)

	assert.IsType(t, tenantcache.NoopObserver{}, tenantcache.Observers())
	assert.IsType(t, tenantcache.NoopObserver{}, tenantcache.Observers(nil))
	tenantcache.NoopObserver{}.Observe(context.Background(), tenantcache.Event{})
}
