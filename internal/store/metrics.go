package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the store collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	guardWait  prometheus.Histogram
	orders     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderdb",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by name and result.",
		}, []string{"operation", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orderdb",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		guardWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orderdb",
			Subsystem: "store",
			Name:      "guard_wait_seconds",
			Help:      "Time spent waiting for the write guard.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		orders: f.NewCounter(prometheus.CounterOpts{
			Namespace: "orderdb",
			Subsystem: "store",
			Name:      "orders_materialized_total",
			Help:      "Orders rebuilt from query rows.",
		}),
	}
}

func (m *Metrics) observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) observeGuardWait(d time.Duration) {
	if m == nil {
		return
	}
	m.guardWait.Observe(d.Seconds())
}

func (m *Metrics) addMaterialized(n int) {
	if m == nil {
		return
	}
	m.orders.Add(float64(n))
}
