// Package sitemap renders sitemap XML documents from URL records.
package sitemap

import (
	"context"
	"strconv"
	"strings"

	"github.com/seo-optimizer/seo-analyzer/analyzer"
)

const (
	xmlHeader   = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	urlsetOpen  = `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n"
	urlsetClose = `</urlset>`
)

// URL is a single <url> entry. Optional fields are nil when absent.
type URL struct {
	Loc        string   `json:"loc" binding:"required"`
	LastMod    *string  `json:"lastmod"`
	ChangeFreq *string  `json:"changefreq"`
	Priority   *float32 `json:"priority"`
}

// Sitemap is a list of URL entries
type Sitemap struct {
	URLs []URL `json:"urls"`
}

// GenerateXML renders the entries as a sitemap document. Values are written
// as given, without XML escaping, so callers must pass pre-escaped text.
// The document has no trailing newline.
func GenerateXML(urls []URL) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(urlsetOpen)

	for _, u := range urls {
		b.WriteString("  <url>\n")
		writeElement(&b, "loc", u.Loc)
		if u.LastMod != nil {
			writeElement(&b, "lastmod", *u.LastMod)
		}
		if u.ChangeFreq != nil {
			writeElement(&b, "changefreq", *u.ChangeFreq)
		}
		if u.Priority != nil {
			writeElement(&b, "priority", strconv.FormatFloat(float64(*u.Priority), 'f', 1, 32))
		}
		b.WriteString("  </url>\n")
	}

	b.WriteString(urlsetClose)
	return b.String()
}

func writeElement(b *strings.Builder, name, value string) {
	b.WriteString("    <")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(value)
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">\n")
}

// PageFetcher retrieves a document over HTTP
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*analyzer.FetchResult, error)
}

// Fetcher retrieves remote sitemaps
type Fetcher struct {
	pages PageFetcher
}

// NewFetcher creates a sitemap fetcher on top of a page fetcher
func NewFetcher(pages PageFetcher) *Fetcher {
	return &Fetcher{pages: pages}
}

// FetchSitemap requests the sitemap at url. Fetch errors are returned; the
// body is not parsed and the result is always an empty sitemap.
func (f *Fetcher) FetchSitemap(ctx context.Context, url string) (*Sitemap, error) {
	if _, err := f.pages.Fetch(ctx, url); err != nil {
		return nil, err
	}
	return &Sitemap{URLs: []URL{}}, nil
}
