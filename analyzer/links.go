package analyzer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkCounts splits a page's anchors by host
type LinkCounts struct {
	Internal int
	External int
}

// Schemes whose URLs treat a backslash like a slash when parsed by browsers
var specialSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ws":    true,
	"wss":   true,
	"ftp":   true,
	"file":  true,
}

// ClassifyLinks resolves every <a href> against baseURL and counts it as
// internal when the resolved host equals the base host, ignoring case.
// Hrefs that do not resolve are skipped. The base URL must be absolute.
func ClassifyLinks(doc *goquery.Document, baseURL string) (LinkCounts, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return LinkCounts{}, fmt.Errorf("%w: %s: %w", ErrURLParse, baseURL, err)
	}
	if !base.IsAbs() {
		return LinkCounts{}, fmt.Errorf("%w: %s: relative url without a base", ErrURLParse, baseURL)
	}
	baseHost := strings.ToLower(base.Hostname())

	var counts LinkCounts
	doc.FindMatcher(anchorSelector).Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}

		resolved, err := base.Parse(normalizeHref(href, base.Scheme))
		if err != nil {
			return
		}

		if strings.ToLower(resolved.Hostname()) == baseHost {
			counts.Internal++
		} else {
			counts.External++
		}
	})

	return counts, nil
}

// normalizeHref rewrites an href into a form net/url accepts the way a
// browser would read it: surrounding whitespace is dropped, backslashes
// before the query act as slashes for web schemes, and a % that does not
// start an escape is taken literally.
func normalizeHref(href, baseScheme string) string {
	href = strings.TrimSpace(href)

	scheme := hrefScheme(href)
	if specialSchemes[scheme] || (scheme == "" && specialSchemes[strings.ToLower(baseScheme)]) {
		end := strings.IndexAny(href, "?#")
		if end < 0 {
			end = len(href)
		}
		href = strings.ReplaceAll(href[:end], `\`, "/") + href[end:]
	}

	return escapeStrayPercent(href)
}

// hrefScheme returns the lowercased scheme of href, or "" when it is relative
func hrefScheme(href string) string {
	for i := 0; i < len(href); i++ {
		c := href[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		case c == ':' && i > 0:
			return strings.ToLower(href[:i])
		default:
			return ""
		}
	}
	return ""
}

func escapeStrayPercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && !(i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
