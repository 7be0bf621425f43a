package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msme-risk/domain"
)

func TestObserveAssessment(t *testing.T) {
	m := New()

	m.ObserveAssessment(domain.RiskResult{Score: 90, Label: domain.RiskLabelLow})
	m.ObserveAssessment(domain.RiskResult{Score: -300, Label: domain.RiskLabelHigh})
	m.ObserveAssessment(domain.RiskResult{Score: 10, Label: domain.RiskLabelHigh})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("Low")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("High")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("Medium")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/risk/score", http.StatusOK, 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `msme_http_requests_total{route="/risk/score",status="200"} 1`)
}

func TestRegistry_ScoreHistogram(t *testing.T) {
	m := New()
	m.ObserveAssessment(domain.RiskResult{Score: 80, Label: domain.RiskLabelMedium})

	count, err := testutil.GatherAndCount(m.Registry(), "msme_risk_score", "msme_risk_assessments_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
