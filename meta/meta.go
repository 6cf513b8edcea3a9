// Package meta collects <meta> tags from a parsed page.
package meta

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var metaSelector = cascadia.MustCompile("meta")

// RequiredOpenGraph lists the Open Graph properties every page should carry
var RequiredOpenGraph = []string{"og:title", "og:description", "og:image", "og:url"}

// ExtractAll maps each meta tag's name and property attributes to its
// content. Tags without content are ignored; later tags overwrite earlier ones.
func ExtractAll(doc *goquery.Document) map[string]string {
	tags := make(map[string]string)
	doc.FindMatcher(metaSelector).Each(func(_ int, s *goquery.Selection) {
		content, hasContent := s.Attr("content")
		if !hasContent {
			return
		}
		if name, ok := s.Attr("name"); ok {
			tags[name] = content
		}
		if property, ok := s.Attr("property"); ok {
			tags[property] = content
		}
	})
	return tags
}

// OpenGraph returns the required Open Graph properties present on the page,
// in RequiredOpenGraph order.
func OpenGraph(doc *goquery.Document) []string {
	present, _ := openGraphCoverage(ExtractAll(doc))
	return present
}

// MissingOpenGraph returns the required Open Graph properties the page lacks
func MissingOpenGraph(doc *goquery.Document) []string {
	_, missing := openGraphCoverage(ExtractAll(doc))
	return missing
}

func openGraphCoverage(tags map[string]string) (present, missing []string) {
	present = make([]string, 0, len(RequiredOpenGraph))
	missing = make([]string, 0, len(RequiredOpenGraph))
	for _, property := range RequiredOpenGraph {
		if _, ok := tags[property]; ok {
			present = append(present, property)
		} else {
			missing = append(missing, property)
		}
	}
	return present, missing
}
