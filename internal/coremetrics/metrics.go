// Package coremetrics instruments the core's dispatch loop, outbound
// fetches, and storage/analytics subsystems with Prometheus metrics,
// registered through promauto at package init.
package coremetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchDuration times Runtime.Dispatch end-to-end (the synchronous
	// Update call, not any future it launches).
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogcore_dispatch_duration_seconds",
			Help:    "Duration of Runtime.Dispatch's synchronous Update call.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"field", "verb"},
	)

	// DispatchErrors counts Update calls that returned a non-nil error
	// (an invalid Action, not a downstream effect failure).
	DispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogcore_dispatch_errors_total",
			Help: "Total Runtime.Dispatch calls that returned an error.",
		},
		[]string{"field", "verb"},
	)

	// FetchDuration times one env.Fetch round trip by remote host.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogcore_fetch_duration_seconds",
			Help:    "Duration of outbound addon/API/streaming-server fetches.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"host"},
	)

	// FetchErrors counts failed fetches by host.
	FetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogcore_fetch_errors_total",
			Help: "Total outbound fetch errors.",
		},
		[]string{"host"},
	)

	// CircuitBreakerState reports 0=closed, 0.5=half-open, 1=open per host.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalogcore_circuit_breaker_state",
			Help: "Per-host circuit breaker state (0 closed, 0.5 half-open, 1 open).",
		},
		[]string{"host"},
	)

	// StorageOpDuration times one kvstorage Get/Set call by op and key.
	StorageOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogcore_storage_op_duration_seconds",
			Help:    "Duration of a storage backend Get/Set call.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "key"},
	)

	// AnalyticsQueueDepth is the number of queued (not yet flushed)
	// analytics batches.
	AnalyticsQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogcore_analytics_queue_depth",
			Help: "Number of analytics batches queued but not yet flushed.",
		},
	)

	// AnalyticsFlushErrors counts flushNext calls that reverted their
	// pending batch back onto the queue.
	AnalyticsFlushErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogcore_analytics_flush_errors_total",
			Help: "Total analytics batch flushes that failed and were reverted.",
		},
	)

	// SubscriberDrops counts RuntimeEvents dropped because a hub
	// subscriber's buffer was full.
	SubscriberDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogcore_runtime_event_drops_total",
			Help: "RuntimeEvents dropped because a subscriber channel was full.",
		},
	)
)

// ObserveDispatch records one Dispatch call's duration and, on error,
// increments DispatchErrors.
func ObserveDispatch(field, verb string, start time.Time, err error) {
	DispatchDuration.WithLabelValues(field, verb).Observe(time.Since(start).Seconds())
	if err != nil {
		DispatchErrors.WithLabelValues(field, verb).Inc()
	}
}

// ObserveFetch records one outbound fetch's duration and, on error,
// increments FetchErrors.
func ObserveFetch(host string, start time.Time, err error) {
	FetchDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())
	if err != nil {
		FetchErrors.WithLabelValues(host).Inc()
	}
}
