// Package server exposes the analyzer and sitemap generator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
	"github.com/seo-optimizer/seo-analyzer/cache"
	"github.com/seo-optimizer/seo-analyzer/metrics"
	"github.com/seo-optimizer/seo-analyzer/middleware"
	"github.com/seo-optimizer/seo-analyzer/sitemap"
	"github.com/seo-optimizer/seo-analyzer/stats"
)

const (
	shutdownTimeout     = 10 * time.Second
	maintenanceInterval = 10 * time.Minute
	statsRetainMonths   = 12
)

// PageAnalyzer produces reports for remote pages
type PageAnalyzer interface {
	Analyze(ctx context.Context, url string) (*analyzer.SeoReport, error)
	AnalyzeMeta(ctx context.Context, url string) (*analyzer.MetaReport, error)
}

// SitemapFetcher retrieves remote sitemaps
type SitemapFetcher interface {
	FetchSitemap(ctx context.Context, url string) (*sitemap.Sitemap, error)
}

// Options configures the HTTP server
type Options struct {
	Port      string
	DevMode   bool
	RateLimit float64
	RateBurst int
}

// Deps are the services the handlers call. Metrics may be nil.
type Deps struct {
	Analyzer PageAnalyzer
	Sitemaps SitemapFetcher
	Cache    *cache.ReportCache
	Stats    *stats.Storage
	Metrics  *metrics.Metrics
}

type Server struct {
	router      *gin.Engine
	server      *http.Server
	rateLimiter *middleware.RateLimiter
	logger      *zap.Logger
	deps        Deps
	devMode     bool
}

// New builds the router with the standard middleware chain and all routes
func New(opts Options, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.New(0, 0)
	}
	if deps.Stats == nil {
		deps.Stats = stats.NewStorage()
	}

	s := &Server{
		router:      gin.New(),
		rateLimiter: middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst),
		logger:      logger,
		deps:        deps,
		devMode:     opts.DevMode,
	}

	// Recovery first to catch panics from everything below
	s.router.Use(middleware.Recovery(logger))
	s.router.Use(middleware.RequestLogger(logger))
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Stats(deps.Stats, deps.Metrics))

	s.registerRoutes()

	s.server = &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/statistics", s.handleStatistics)
		api.GET("/statistics/:month", s.handleMonthlyStatistics)

		limited := api.Group("", s.rateLimiter.RateLimit())
		limited.POST("/analyze", s.handleAnalyze)
		limited.POST("/meta", s.handleMeta)
		limited.POST("/sitemap", s.handleGenerateSitemap)
		limited.POST("/sitemap/fetch", s.handleFetchSitemap)

		if s.devMode {
			api.DELETE("/cache", s.handleClearCache)
		}
	}

	if s.deps.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully. Background
// maintenance of the cache, stats and rate limiter runs while serving.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("address", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	s.deps.Cache.Start(maintenanceInterval)
	defer s.deps.Cache.Stop()
	go s.maintain(ctx)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}

func (s *Server) maintain(ctx context.Context) {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.rateLimiter.Cleanup(maintenanceInterval)
			s.deps.Stats.Cleanup(statsRetainMonths)
		case <-ctx.Done():
			return
		}
	}
}
