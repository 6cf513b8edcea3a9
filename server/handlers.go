package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
	"github.com/seo-optimizer/seo-analyzer/metrics"
	"github.com/seo-optimizer/seo-analyzer/sitemap"
)

type urlRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type sitemapRequest struct {
	URLs []sitemap.URL `json:"urls" binding:"required,dive"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (s *Server) handleStatistics(c *gin.Context) {
	snapshot := s.deps.Stats.Snapshot(s.devMode)
	snapshot["cache"] = s.deps.Cache.Stats()
	c.JSON(http.StatusOK, snapshot)
}

// handleMonthlyStatistics returns the counters of one month, formatted YYYY-MM
func (s *Server) handleMonthlyStatistics(c *gin.Context) {
	month := c.Param("month")
	monthly, ok := s.deps.Stats.GetMonthlyStats(month)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No statistics for month " + month,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"month":           month,
		"stats":           monthly,
		"averageLoadTime": monthly.AverageLoadTime(),
	})
}

func (s *Server) handleClearCache(c *gin.Context) {
	cleared := s.deps.Cache.Len()
	s.deps.Cache.Clear()
	s.logger.Info("Report cache cleared", zap.Int("entries", cleared))
	c.JSON(http.StatusOK, gin.H{
		"cleared": cleared,
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var request urlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	if report, ok := s.deps.Cache.Get(request.URL); ok {
		s.recordCacheLookup(true)
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordAnalysis(metrics.ResultCached, 0, report)
		}
		c.JSON(http.StatusOK, report)
		return
	}
	s.recordCacheLookup(false)

	start := time.Now()
	report, err := s.deps.Analyzer.Analyze(c.Request.Context(), request.URL)
	if err != nil {
		s.deps.Stats.RecordAnalysis(request.URL, 0, true)
		if s.deps.Metrics != nil {
			s.deps.Metrics.RecordAnalysis(metrics.ResultError, time.Since(start), nil)
		}
		s.respondError(c, "Failed to analyze URL", err)
		return
	}

	s.deps.Cache.Set(request.URL, report)
	s.recordReport(report, time.Since(start))
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleMeta(c *gin.Context) {
	var request urlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	report, err := s.deps.Analyzer.AnalyzeMeta(c.Request.Context(), request.URL)
	if err != nil {
		s.respondError(c, "Failed to analyze URL", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleGenerateSitemap(c *gin.Context) {
	var request sitemapRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid sitemap entries: " + err.Error(),
		})
		return
	}

	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordSitemap()
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(sitemap.GenerateXML(request.URLs)))
}

func (s *Server) handleFetchSitemap(c *gin.Context) {
	var request urlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid URL provided",
		})
		return
	}

	result, err := s.deps.Sitemaps.FetchSitemap(c.Request.Context(), request.URL)
	if err != nil {
		s.respondError(c, "Failed to fetch sitemap", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) recordCacheLookup(hit bool) {
	if hit {
		s.deps.Stats.IncrementCache(1, 0)
	} else {
		s.deps.Stats.IncrementCache(0, 1)
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordCacheLookup(hit)
	}
}

func (s *Server) recordReport(report *analyzer.SeoReport, elapsed time.Duration) {
	var loadTime float64
	if report.LoadTime != nil {
		loadTime = *report.LoadTime
	}
	s.deps.Stats.RecordAnalysis(report.URL, loadTime, false)

	var critical, warning, info int
	for _, issue := range report.Issues {
		switch issue.Severity {
		case analyzer.SeverityCritical:
			critical++
		case analyzer.SeverityWarning:
			warning++
		case analyzer.SeverityInfo:
			info++
		}
	}
	s.deps.Stats.RecordIssues(critical, warning, info)

	if s.deps.Metrics != nil {
		s.deps.Metrics.RecordAnalysis(metrics.ResultSuccess, elapsed, report)
	}
}

// respondError maps analyzer errors to a status code and attaches the error
// to the context for the request logger
func (s *Server) respondError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.JSON(statusForError(err), gin.H{
		"error": message + ": " + err.Error(),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrURLParse):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analyzer.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
