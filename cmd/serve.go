package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
	"github.com/seo-optimizer/seo-analyzer/cache"
	"github.com/seo-optimizer/seo-analyzer/metrics"
	"github.com/seo-optimizer/seo-analyzer/server"
	"github.com/seo-optimizer/seo-analyzer/sitemap"
	"github.com/seo-optimizer/seo-analyzer/stats"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			gin.SetMode(cfg.GinMode)

			seoAnalyzer := analyzer.New(analyzer.Config{UserAgent: cfg.UserAgent}, logger.Named("analyzer"))

			deps := server.Deps{
				Analyzer: seoAnalyzer,
				Sitemaps: sitemap.NewFetcher(seoAnalyzer.Fetcher()),
				Cache:    cache.New(cfg.CacheTTL, cfg.CacheMaxEntries),
				Stats:    stats.NewStorage(),
			}
			if cfg.MetricsEnabled {
				deps.Metrics = metrics.New("seo")
			}

			srv := server.New(server.Options{
				Port:      cfg.Port,
				DevMode:   cfg.DevMode,
				RateLimit: cfg.RateLimit,
				RateBurst: cfg.RateBurst,
			}, deps, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting SEO analyzer",
				zap.String("version", Version),
				zap.String("port", cfg.Port),
				zap.Bool("dev_mode", cfg.DevMode),
				zap.Bool("metrics", cfg.MetricsEnabled),
			)
			return srv.Run(ctx)
		},
	}
}
