package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seo-analyzer/meta"
)

// Config controls how pages are fetched
type Config struct {
	UserAgent string
	// Client overrides the pooled default client
	Client *http.Client
}

// Analyzer performs SEO analysis on a given URL.
// It holds no per-analysis state, so concurrent calls are independent.
type Analyzer struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// New creates a new Analyzer instance
func New(cfg Config, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		fetcher: NewFetcher(cfg.Client, cfg.UserAgent, logger),
		logger:  logger,
	}
}

// Fetcher returns the fetcher shared by all analyses
func (a *Analyzer) Fetcher() *Fetcher {
	return a.fetcher
}

// Analyze fetches the page and builds its report. Cancelling ctx aborts the
// in-flight request; any fetch failure aborts the analysis.
func (a *Analyzer) Analyze(ctx context.Context, url string) (*SeoReport, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	report, err := AnalyzeHTML(url, page.Body)
	if err != nil {
		return nil, err
	}

	pageSize := int64(len(page.Body))
	loadTime := page.LoadTime.Seconds()
	report.PageSize = &pageSize
	report.LoadTime = &loadTime

	a.logger.Debug("Analysis complete",
		zap.String("url", url),
		zap.Int("score", report.Score),
		zap.Int("issues", len(report.Issues)))

	return report, nil
}

// AnalyzeHTML runs the extraction, link classification, issue and scoring
// stages over an in-memory document. pageURL is the base for link
// resolution. PageSize and LoadTime are left unset.
func AnalyzeHTML(pageURL, html string) (*SeoReport, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	report := &SeoReport{
		URL:              pageURL,
		Title:            extractTitle(doc),
		MetaDescription:  extractMetaDescription(doc),
		H1Tags:           extractHeadings(doc, h1Selector),
		H2Tags:           extractHeadings(doc, h2Selector),
		KeywordDensity:   KeywordDensity(html),
		ImagesWithoutAlt: countImagesWithoutAlt(doc),
		StructuredData:   extractStructuredData(doc),
	}

	links, err := ClassifyLinks(doc, pageURL)
	if err != nil {
		return nil, err
	}
	report.InternalLinks = links.Internal
	report.ExternalLinks = links.External

	report.Issues = GenerateIssues(report)
	report.Score = CalculateScore(report.Issues)

	return report, nil
}

// AnalyzeMeta fetches the page and reports its meta tags and Open Graph coverage
func (a *Analyzer) AnalyzeMeta(ctx context.Context, url string) (*MetaReport, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(page.Body)
	if err != nil {
		return nil, err
	}

	return &MetaReport{
		URL:              url,
		MetaTags:         meta.ExtractAll(doc),
		OpenGraph:        meta.OpenGraph(doc),
		MissingOpenGraph: meta.MissingOpenGraph(doc),
	}, nil
}

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
