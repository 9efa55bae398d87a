// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Instances
// register against the given registerer, so tests can use throwaway
// registries.
type Metrics struct {
	// Scan metrics
	BlocksScanned  prometheus.Counter
	ScanCycles     *prometheus.CounterVec
	ProviderErrors prometheus.Counter
	TipHeight      prometheus.Gauge
	CursorHeight   prometheus.Gauge

	// Discovery metrics
	PoolsDetected  *prometheus.CounterVec
	DuplicatePools prometheus.Counter

	// Risk and decision metrics
	RiskScore      prometheus.Histogram
	TradesExecuted prometheus.Counter
	PoolsFiltered  prometheus.Counter
	AnalysisFailed prometheus.Counter
	VolumeADA      prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered on reg. A nil reg
// uses the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "pool_sentinel"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		BlocksScanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "blocks_scanned_total",
			Help:      "Total number of blocks fully processed",
		}),
		ScanCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "cycles_total",
			Help:      "Total number of scan cycles by outcome",
		}, []string{"outcome"}),
		ProviderErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "provider_errors_total",
			Help:      "Total number of chain provider failures",
		}),
		TipHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "tip_height",
			Help:      "Latest chain tip height observed",
		}),
		CursorHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "cursor_height",
			Help:      "Last confirmed scan cursor height",
		}),

		PoolsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "pools_detected_total",
			Help:      "Total number of first-seen pools by DEX",
		}, []string{"dex"}),
		DuplicatePools: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "duplicate_pools_total",
			Help:      "Total number of re-observed pool creations",
		}),

		RiskScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "risk",
			Name:      "score",
			Help:      "Distribution of aggregate risk scores",
			Buckets:   []float64{0, 0.1, 0.25, 0.5, 0.75, 1.0, 1.5, 2.0},
		}),
		TradesExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "trades_executed_total",
			Help:      "Total number of executed (or simulated) trades",
		}),
		PoolsFiltered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "pools_filtered_total",
			Help:      "Total number of pools rejected as too risky",
		}),
		AnalysisFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "analysis_failed_total",
			Help:      "Total number of pools whose assessment failed",
		}),
		VolumeADA: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decision",
			Name:      "volume_ada_total",
			Help:      "Accumulated trade volume in ADA",
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query latency by database and operation",
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Database query errors by database and operation",
		}, []string{"database", "operation"}),
	}
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// Handler exposes the given registry over HTTP for scraping. A nil
// registry serves the default one.
func Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
