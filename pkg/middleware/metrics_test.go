package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue gathers the default registry and returns the value of the
// named counter with the given label pairs, or -1 if absent.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchesLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return -1
}

func matchesLabels(m *dto.Metric, want map[string]string) bool {
	have := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		have[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}

func TestPrometheusMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-test-service"))
	r.Get("/api/v1/reviews", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	before := counterValue(t, "http_requests_total", map[string]string{
		"service": "metrics-test-service",
		"path":    "/api/v1/reviews",
		"status":  "200",
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	after := counterValue(t, "http_requests_total", map[string]string{
		"service": "metrics-test-service",
		"path":    "/api/v1/reviews",
		"status":  "200",
	})
	assert.Equal(t, 1.0, after-maxZero(before))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	errCount := counterValue(t, "http_requests_total", map[string]string{
		"service": "metrics-test-service",
		"path":    "/boom",
		"status":  "500",
	})
	assert.GreaterOrEqual(t, errCount, 1.0)
}

func maxZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
