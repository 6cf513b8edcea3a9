package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
)

func TestRecordAnalysis(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())
	loadTime := 0.25

	m.RecordAnalysis(ResultSuccess, time.Second, &analyzer.SeoReport{
		Score:    70,
		LoadTime: &loadTime,
		Issues: []analyzer.SeoIssue{
			{Severity: analyzer.SeverityCritical},
			{Severity: analyzer.SeverityWarning},
			{Severity: analyzer.SeverityWarning},
		},
	})
	m.RecordAnalysis(ResultError, time.Second, nil)
	m.RecordAnalysis(ResultCached, 0, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues(ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues(ResultCached)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.issuesTotal.WithLabelValues("Critical")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.issuesTotal.WithLabelValues("Warning")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.issuesTotal))
}

func TestRecordCacheAndHTTP(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.RecordSitemap()
	m.RecordHTTPRequest(http.MethodPost, "/api/analyze", http.StatusOK, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sitemapsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/analyze", "200")))
}

func TestServeHTTP(t *testing.T) {
	m := New("")
	m.RecordSitemap()

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "seo_sitemap_generated_total 1")
}
