// Package metrics exposes Prometheus collectors for the analyzer service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
)

// Analysis results used as label values
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultCached  = "cached"
)

type Metrics struct {
	handler http.Handler

	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	pageLoadTime     prometheus.Histogram
	scores           prometheus.Histogram
	issuesTotal      *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	sitemapsTotal    prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them on a private registry
func New(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on registry and serves it
func NewWithRegistry(namespace string, registry *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "seo"
	}

	m := &Metrics{}

	m.analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "analyses_total",
			Help:      "Total number of page analyses by result",
		},
		[]string{"result"},
	)

	m.analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end duration of page analyses in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	m.pageLoadTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "page_load_seconds",
			Help:      "Time spent fetching and decoding analyzed pages",
			Buckets:   prometheus.DefBuckets,
		},
	)

	m.scores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "score",
			Help:      "Distribution of SEO scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	m.issuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "issues_total",
			Help:      "Total number of SEO issues reported by severity",
		},
		[]string{"severity"},
	)

	m.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Report cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	m.sitemapsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sitemap",
			Name:      "generated_total",
			Help:      "Total number of sitemap documents generated",
		},
	)

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registry.MustRegister(
		m.analysesTotal,
		m.analysisDuration,
		m.pageLoadTime,
		m.scores,
		m.issuesTotal,
		m.cacheLookups,
		m.sitemapsTotal,
		m.httpRequests,
		m.httpDuration,
	)

	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})

	return m
}

// RecordAnalysis records the outcome of one analysis. report may be nil on error.
func (m *Metrics) RecordAnalysis(result string, duration time.Duration, report *analyzer.SeoReport) {
	m.analysesTotal.WithLabelValues(result).Inc()
	if result == ResultCached {
		return
	}
	m.analysisDuration.Observe(duration.Seconds())
	if report == nil {
		return
	}

	m.scores.Observe(float64(report.Score))
	if report.LoadTime != nil {
		m.pageLoadTime.Observe(*report.LoadTime)
	}
	for _, issue := range report.Issues {
		m.issuesTotal.WithLabelValues(string(issue.Severity)).Inc()
	}
}

// RecordCacheLookup counts a report cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSitemap() {
	m.sitemapsTotal.Inc()
}

// RecordHTTPRequest counts a served request. route is the matched route
// pattern, not the raw path.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ServeHTTP serves the registry in the Prometheus exposition format
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
