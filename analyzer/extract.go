package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Fixed selectors, compiled once. A bad literal here is a programming error.
var (
	titleSelector           = cascadia.MustCompile("title")
	metaDescriptionSelector = cascadia.MustCompile("meta[name='description']")
	h1Selector              = cascadia.MustCompile("h1")
	h2Selector              = cascadia.MustCompile("h2")
	imageSelector           = cascadia.MustCompile("img")
	anchorSelector          = cascadia.MustCompile("a[href]")
	structuredDataSelector  = cascadia.MustCompile("script[type='application/ld+json']")
)

// minKeywordLength is the length a token must exceed to be counted
const minKeywordLength = 3

func extractTitle(doc *goquery.Document) *string {
	sel := doc.FindMatcher(titleSelector).First()
	if sel.Length() == 0 {
		return nil
	}
	title := strings.TrimSpace(sel.Text())
	return &title
}

// extractMetaDescription returns the content attribute verbatim, untrimmed
func extractMetaDescription(doc *goquery.Document) *string {
	content, exists := doc.FindMatcher(metaDescriptionSelector).First().Attr("content")
	if !exists {
		return nil
	}
	return &content
}

func extractHeadings(doc *goquery.Document, matcher goquery.Matcher) []string {
	headings := make([]string, 0)
	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, strings.TrimSpace(s.Text()))
	})
	return headings
}

// countImagesWithoutAlt counts images whose alt is missing or empty.
// A whitespace-only alt counts as present.
func countImagesWithoutAlt(doc *goquery.Document) int {
	count := 0
	doc.FindMatcher(imageSelector).Each(func(_ int, s *goquery.Selection) {
		if alt, exists := s.Attr("alt"); !exists || alt == "" {
			count++
		}
	})
	return count
}

// extractStructuredData returns raw JSON-LD blocks without validating them
func extractStructuredData(doc *goquery.Document) []string {
	blocks := make([]string, 0)
	doc.FindMatcher(structuredDataSelector).Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	return blocks
}

// KeywordDensity computes the share of each word among all counted words,
// as a percentage. It runs over the raw markup, so tag names and attribute
// values are counted too.
func KeywordDensity(html string) map[string]float64 {
	var cleaned strings.Builder
	cleaned.Grow(len(html))
	for _, r := range html {
		if isAlphanumeric(r) || unicode.IsSpace(r) {
			cleaned.WriteRune(r)
		}
	}

	counts := make(map[string]int)
	total := 0
	for _, word := range strings.Fields(cleaned.String()) {
		if utf8.RuneCountInString(word) <= minKeywordLength {
			continue
		}
		counts[strings.ToLower(word)]++
		total++
	}

	density := make(map[string]float64, len(counts))
	if total == 0 {
		return density
	}
	for word, count := range counts {
		density[word] = float64(count) / float64(total) * 100.0
	}
	return density
}

// isAlphanumeric matches the Unicode Alphabetic or Numeric properties.
// Alphabetic includes Other_Alphabetic marks such as Indic vowel signs.
func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r)
}
