// Package cmd implements the seo-analyzer command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seo-analyzer/config"
	"github.com/seo-optimizer/seo-analyzer/logging"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=..."
var Version = "dev"

type rootOptions struct {
	configFile string
	logLevel   string
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "seo-analyzer",
		Short:        "Analyze web pages for SEO issues and generate sitemaps",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./config.yaml when present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(opts),
		newAnalyzeCommand(opts),
		newSitemapCommand(),
		newVersionCommand(),
	)
	return root
}

// load reads the configuration and builds the logger for a command
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seo-analyzer version %s\n", Version)
		},
	}
}
