package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersAll(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.CacheHitsTotal.Inc()
	m.CacheMissesTotal.Inc()
	m.CalculationsTotal.Add(3)
	m.ClassifierQueryErrors.WithLabelValues("store_admins").Inc()
	m.PermissionChecksTotal.WithLabelValues("CAN_MANAGE_ALL_CLUBS", "denied").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.CalculationsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ClassifierQueryErrors.WithLabelValues("store_admins")))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetricsDoubleRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewMetrics(registry)

	assert.Panics(t, func() { NewMetrics(registry) })
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.CacheHitsTotal.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookclub_entitlement_cache_hits_total 1")
}
