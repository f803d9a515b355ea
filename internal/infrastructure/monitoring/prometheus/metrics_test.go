package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersAndServes(t *testing.T) {
	m := NewMetrics()
	m.ParseTotal.WithLabelValues("OK").Inc()
	m.ParseDuration.Observe(0.002)
	m.CacheHitsTotal.Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "molgraph_parse_total")
	assert.Contains(t, body, "molgraph_cache_hits_total")
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	m1 := NewMetrics()
	m2 := NewMetrics()
	assert.NotSame(t, m1.Registry(), m2.Registry())
}
