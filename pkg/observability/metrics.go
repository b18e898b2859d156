package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Entitlement cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheErrorsTotal prometheus.Counter

	// Calculator metrics
	CalculationsTotal        prometheus.Counter
	CalculatorFallbacksTotal prometheus.Counter

	// Classifier metrics
	ClassifierFallbacksTotal prometheus.Counter
	ClassifierQueryErrors    *prometheus.CounterVec

	// Enforcement metrics
	PermissionChecksTotal    *prometheus.CounterVec
	ActivityTrackingFailures prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookclub_entitlement_cache_hits_total",
			Help: "Total number of entitlement cache hits",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookclub_entitlement_cache_misses_total",
			Help: "Total number of entitlement cache misses",
		}),
		CacheErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookclub_entitlement_cache_errors_total",
			Help: "Total number of entitlement cache errors, including secondary-store failures",
		}),
		CalculationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookclub_entitlement_calculations_total",
			Help: "Total number of entitlement calculations",
		}),
		CalculatorFallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookclub_entitlement_calculator_fallbacks_total",
			Help: "Total number of calculations that fell back to the base member set",
		}),
		ClassifierFallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookclub_role_classifier_fallbacks_total",
			Help: "Total number of consolidated-query classifications that fell back to concurrent queries",
		}),
		ClassifierQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookclub_role_classifier_query_errors_total",
			Help: "Total number of failed classifier sub-queries",
		}, []string{"source"}),
		PermissionChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookclub_permission_checks_total",
			Help: "Total number of middleware permission checks",
		}, []string{"capability", "result"}),
		ActivityTrackingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookclub_activity_tracking_failures_total",
			Help: "Total number of swallowed activity-tracking write failures",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheErrorsTotal,
		m.CalculationsTotal,
		m.CalculatorFallbacksTotal,
		m.ClassifierFallbacksTotal,
		m.ClassifierQueryErrors,
		m.PermissionChecksTotal,
		m.ActivityTrackingFailures,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
