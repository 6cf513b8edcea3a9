package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
)

const topKeywords = 10

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var (
		asJSON   bool
		metaOnly bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze a single page and print its SEO report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a := analyzer.New(analyzer.Config{UserAgent: cfg.UserAgent}, logger.Named("analyzer"))
			out := cmd.OutOrStdout()

			if metaOnly {
				report, err := a.AnalyzeMeta(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to analyze %s: %w", args[0], err)
				}
				if asJSON {
					return writeJSON(out, report)
				}
				renderMetaReport(out, report)
				return nil
			}

			report, err := a.Analyze(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to analyze %s: %w", args[0], err)
			}
			if asJSON {
				return writeJSON(out, report)
			}
			renderReport(out, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&metaOnly, "meta", false, "report meta tags and Open Graph coverage instead")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderReport prints the report summary, its issues and the densest keywords
func renderReport(w io.Writer, report *analyzer.SeoReport) {
	summary := newTable(w)
	summary.SetTitle(report.URL)
	summary.AppendRows([]table.Row{
		{"Score", report.Score},
		{"Title", valueOrDash(report.Title)},
		{"Meta description", valueOrDash(report.MetaDescription)},
		{"H1", strings.Join(report.H1Tags, " | ")},
		{"H2", len(report.H2Tags)},
		{"Images without alt", report.ImagesWithoutAlt},
		{"Internal links", report.InternalLinks},
		{"External links", report.ExternalLinks},
		{"Structured data blocks", len(report.StructuredData)},
	})
	if report.PageSize != nil {
		summary.AppendRow(table.Row{"Page size (bytes)", *report.PageSize})
	}
	if report.LoadTime != nil {
		summary.AppendRow(table.Row{"Load time (s)", fmt.Sprintf("%.3f", *report.LoadTime)})
	}
	summary.Render()

	if len(report.Issues) > 0 {
		issues := newTable(w)
		issues.AppendHeader(table.Row{"Severity", "Message", "Recommendation"})
		for _, issue := range report.Issues {
			issues.AppendRow(table.Row{issue.Severity, issue.Message, issue.Recommendation})
		}
		issues.Render()
	}

	if len(report.KeywordDensity) > 0 {
		keywords := newTable(w)
		keywords.AppendHeader(table.Row{"Keyword", "Density (%)"})
		for _, kw := range densest(report.KeywordDensity, topKeywords) {
			keywords.AppendRow(table.Row{kw, fmt.Sprintf("%.2f", report.KeywordDensity[kw])})
		}
		keywords.Render()
	}
}

func renderMetaReport(w io.Writer, report *analyzer.MetaReport) {
	tags := newTable(w)
	tags.SetTitle(report.URL)
	tags.AppendHeader(table.Row{"Meta", "Content"})
	names := make([]string, 0, len(report.MetaTags))
	for name := range report.MetaTags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tags.AppendRow(table.Row{name, report.MetaTags[name]})
	}
	tags.Render()

	fmt.Fprintf(w, "Open Graph present: %s\n", joinOrDash(report.OpenGraph))
	fmt.Fprintf(w, "Open Graph missing: %s\n", joinOrDash(report.MissingOpenGraph))
}

// densest returns up to n keywords, highest density first, ties alphabetical
func densest(density map[string]float64, n int) []string {
	words := make([]string, 0, len(density))
	for word := range density {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if density[words[i]] != density[words[j]] {
			return density[words[i]] > density[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func valueOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
