// Package metrics defines Prometheus metrics for vinted-notifier. They are
// scraped via /metrics in watch mode; one-shot runs still record them so the
// same code paths are observable either way.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vinted"

// Fetch metrics.
var (
	FetchItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_items_total",
		Help:      "Total number of items fetched across all profiles.",
	})

	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Total number of failed profile fetches.",
	}, []string{"reason"})
)

// Reconciliation metrics.
var (
	NewItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "new_items_total",
		Help:      "Total number of items seen for the first time.",
	})
)

// Delivery metrics.
var (
	NotifyChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notify_chunks_total",
		Help:      "Total number of webhook chunk sends attempted.",
	})

	NotifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notify_failures_total",
		Help:      "Total number of webhook chunk sends that failed.",
	})
)

// Run metrics.
var (
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of full notification runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// HTTP metrics for the watch-mode listener.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness probe succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness probe succeeded.",
	})
)
