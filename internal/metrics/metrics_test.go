package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncOutcome(t *testing.T) {
	m := New(nil)

	m.IncOutcome(OutcomeCacheHit)
	m.IncOutcome(OutcomeCacheHit)
	m.IncOutcome(OutcomeHeuristic)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(OutcomeCacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(OutcomeHeuristic)))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncOutcome(OutcomeAI)
		m.ObserveFetch(time.Second)
	})
}

func TestHandler_ExposesMetrics(t *testing.T) {
	size := 3
	m := New(func() int { return size })
	m.IncOutcome(OutcomeAI)
	m.ObserveFetch(150 * time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `enricher_requests_total{outcome="ai"} 1`)
	assert.Contains(t, string(body), "enricher_fetch_duration_seconds_count 1")
	assert.Contains(t, string(body), "enricher_cache_entries 3")
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil)
		New(nil)
	})
}
