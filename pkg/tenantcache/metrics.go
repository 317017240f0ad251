package tenantcache

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver exports cache events as Prometheus metrics.
type MetricsObserver struct {
	operations   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	loadDuration *prometheus.HistogramVec
}

// NewMetricsObserver creates the collectors under the given namespace
// ("tenantcache" when empty). Call Register before use.
func NewMetricsObserver(namespace string) *MetricsObserver {
	if namespace == "" {
		namespace = "tenantcache"
	}
	return &MetricsObserver{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Completed cache operations by cache and operation",
			},
			[]string{"cache", "op"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Failed cache operations by cache and operation",
			},
			[]string{"cache", "op"},
		),
		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_duration_seconds",
				Help:      "Time spent computing a missing entry",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"cache"},
		),
	}
}

// Register adds the collectors to reg.
func (m *MetricsObserver) Register(reg prometheus.Registerer) error {
	var errs []error
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Collectors returns every collector owned by the observer.
func (m *MetricsObserver) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.operations, m.failures, m.loadDuration}
}

func (m *MetricsObserver) Observe(_ context.Context, e Event) {
	if e.Err != nil {
		m.failures.WithLabelValues(e.Cache, string(e.Op)).Inc()
		return
	}
	m.operations.WithLabelValues(e.Cache, string(e.Op)).Inc()
	if e.Op == OpLoad {
		m.loadDuration.WithLabelValues(e.Cache).Observe(e.Duration.Seconds())
	}
}
