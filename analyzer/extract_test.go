package analyzer

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractTitle(t *testing.T) {
	t.Run("trimmed", func(t *testing.T) {
		title := extractTitle(mustParse(t, "<title>\n\t  Spaced Title  \n</title>"))
		require.NotNil(t, title)
		assert.Equal(t, "Spaced Title", *title)
	})

	t.Run("first title wins", func(t *testing.T) {
		title := extractTitle(mustParse(t, "<head><title>First</title><title>Second</title></head>"))
		require.NotNil(t, title)
		assert.Equal(t, "First", *title)
	})

	t.Run("entities decoded", func(t *testing.T) {
		title := extractTitle(mustParse(t, "<title>A &amp; B</title>"))
		require.NotNil(t, title)
		assert.Equal(t, "A & B", *title)
	})

	t.Run("empty element is present", func(t *testing.T) {
		title := extractTitle(mustParse(t, "<title></title>"))
		require.NotNil(t, title)
		assert.Equal(t, "", *title)
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, extractTitle(mustParse(t, "<html><body><p>x</p></body></html>")))
	})
}

func TestExtractMetaDescription(t *testing.T) {
	t.Run("content kept verbatim", func(t *testing.T) {
		desc := extractMetaDescription(mustParse(t, `<meta name="description" content="  padded  ">`))
		require.NotNil(t, desc)
		assert.Equal(t, "  padded  ", *desc)
	})

	t.Run("name match is case sensitive", func(t *testing.T) {
		assert.Nil(t, extractMetaDescription(mustParse(t, `<meta name="Description" content="x">`)))
	})

	t.Run("first matching tag without content is absent", func(t *testing.T) {
		html := `<meta name="description"><meta name="description" content="second">`
		assert.Nil(t, extractMetaDescription(mustParse(t, html)))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, extractMetaDescription(mustParse(t, `<meta name="keywords" content="x">`)))
	})
}

func TestExtractHeadings(t *testing.T) {
	doc := mustParse(t, `<h1> One <span>nested</span> </h1><h2>A</h2><div><h2>  B </h2></div><h1>Two</h1>`)
	assert.Equal(t, []string{"One nested", "Two"}, extractHeadings(doc, h1Selector))
	assert.Equal(t, []string{"A", "B"}, extractHeadings(doc, h2Selector))
}

func TestCountImagesWithoutAlt(t *testing.T) {
	doc := mustParse(t, `<img src="1"><img src="2" alt=""><img src="3" alt=" "><img src="4" alt="ok">`)
	assert.Equal(t, 2, countImagesWithoutAlt(doc))
}

func TestExtractStructuredData(t *testing.T) {
	html := `<script type="application/ld+json">{"@type":"Organization"}</script>` +
		`<script type="text/javascript">var x = 1;</script>` +
		`<script type="application/ld+json">{not json</script>`
	assert.Equal(t, []string{`{"@type":"Organization"}`, `{not json`}, extractStructuredData(mustParse(t, html)))
}

func TestKeywordDensity(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		density := KeywordDensity("alpha beta alpha gamma")
		assert.Equal(t, map[string]float64{"alpha": 50.0, "beta": 25.0, "gamma": 25.0}, density)
	})

	t.Run("short tokens dropped and case folded", func(t *testing.T) {
		density := KeywordDensity("The cat SEEN seen on a mat")
		assert.Equal(t, map[string]float64{"seen": 100.0}, density)
	})

	t.Run("punctuation removed before splitting", func(t *testing.T) {
		density := KeywordDensity("hello, world! hel-lo")
		require.Len(t, density, 2)
		assert.InDelta(t, 66.6667, density["hello"], 1e-3)
		assert.InDelta(t, 33.3333, density["world"], 1e-3)
	})

	t.Run("markup leaks into vocabulary", func(t *testing.T) {
		density := KeywordDensity(`<html><body class="main"> word </body></html>`)
		assert.Contains(t, density, "html")
		assert.Contains(t, density, "body")
		assert.Contains(t, density, "classmain")
		assert.Contains(t, density, "word")
	})

	t.Run("length counted in characters", func(t *testing.T) {
		density := KeywordDensity("ação açã")
		assert.Equal(t, map[string]float64{"ação": 100.0}, density)
	})

	t.Run("combining vowel signs kept", func(t *testing.T) {
		density := KeywordDensity("किताब किताब")
		assert.Equal(t, map[string]float64{"किताब": 100.0}, density)
	})

	t.Run("no counted tokens", func(t *testing.T) {
		assert.Empty(t, KeywordDensity("a bb ccc !!! ..."))
		assert.NotNil(t, KeywordDensity(""))
	})

	t.Run("percentages sum to one hundred", func(t *testing.T) {
		inputs := []string{
			perfectPage,
			"one two three four five six seven eight nine ten eleven twelve",
			strings.Repeat("repeat words here often ", 50),
		}
		for _, input := range inputs {
			density := KeywordDensity(input)
			require.NotEmpty(t, density)
			sum := 0.0
			for _, pct := range density {
				sum += pct
			}
			assert.InDelta(t, 100.0, sum, 1e-3)
		}
	})
}
