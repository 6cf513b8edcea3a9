package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestGenerateIssues_Title(t *testing.T) {
	desc := strPtr(strings.Repeat("d", 140))
	tests := []struct {
		name  string
		title *string
		want  []SeoIssue
	}{
		{"missing", nil, []SeoIssue{issueTitleMissing}},
		{"too short", strPtr(strings.Repeat("t", 29)), []SeoIssue{issueTitleTooShort}},
		{"lower bound", strPtr(strings.Repeat("t", 30)), []SeoIssue{}},
		{"upper bound", strPtr(strings.Repeat("t", 60)), []SeoIssue{}},
		{"too long", strPtr(strings.Repeat("t", 61)), []SeoIssue{issueTitleTooLong}},
		// 30 characters but 60 bytes
		{"counted in characters", strPtr(strings.Repeat("é", 30)), []SeoIssue{}},
		{"empty title is present but short", strPtr(""), []SeoIssue{issueTitleTooShort}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &SeoReport{Title: tt.title, MetaDescription: desc, H1Tags: []string{"h"}}
			assert.Equal(t, tt.want, GenerateIssues(report))
		})
	}
}

func TestGenerateIssues_MetaDescription(t *testing.T) {
	title := strPtr(strings.Repeat("t", 40))
	tests := []struct {
		name string
		desc *string
		want []SeoIssue
	}{
		{"missing", nil, []SeoIssue{issueMetaMissing}},
		{"too short", strPtr(strings.Repeat("d", 119)), []SeoIssue{issueMetaTooShort}},
		{"lower bound", strPtr(strings.Repeat("d", 120)), []SeoIssue{}},
		{"upper bound", strPtr(strings.Repeat("d", 160)), []SeoIssue{}},
		{"too long", strPtr(strings.Repeat("d", 161)), []SeoIssue{issueMetaTooLong}},
		{"counted in characters", strPtr(strings.Repeat("ç", 150)), []SeoIssue{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &SeoReport{Title: title, MetaDescription: tt.desc, H1Tags: []string{"h"}}
			assert.Equal(t, tt.want, GenerateIssues(report))
		})
	}
}

func TestGenerateIssues_H1AndImages(t *testing.T) {
	base := func() *SeoReport {
		return &SeoReport{
			Title:           strPtr(strings.Repeat("t", 40)),
			MetaDescription: strPtr(strings.Repeat("d", 140)),
		}
	}

	t.Run("no h1", func(t *testing.T) {
		assert.Equal(t, []SeoIssue{issueH1Missing}, GenerateIssues(base()))
	})

	t.Run("single h1", func(t *testing.T) {
		r := base()
		r.H1Tags = []string{"only"}
		assert.Empty(t, GenerateIssues(r))
	})

	t.Run("multiple h1", func(t *testing.T) {
		r := base()
		r.H1Tags = []string{"a", "b", "c"}
		assert.Equal(t, []SeoIssue{issueMultipleH1}, GenerateIssues(r))
	})

	t.Run("images without alt count interpolated", func(t *testing.T) {
		r := base()
		r.H1Tags = []string{"only"}
		r.ImagesWithoutAlt = 12
		issues := GenerateIssues(r)
		assert.Equal(t, []SeoIssue{{
			Severity:       SeverityWarning,
			Message:        "12 imagens sem texto alternativo",
			Recommendation: "Adicione texto alternativo a todas as imagens",
		}}, issues)
	})
}

func TestGenerateIssues_OrderAndBound(t *testing.T) {
	report := &SeoReport{
		Title:            strPtr(strings.Repeat("t", 100)),
		MetaDescription:  strPtr("short"),
		H1Tags:           []string{"a", "b"},
		ImagesWithoutAlt: 3,
	}
	issues := GenerateIssues(report)

	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	assert.Equal(t, []string{
		"Título muito longo",
		"Meta description muito curta",
		"Múltiplas tags H1",
		"3 imagens sem texto alternativo",
	}, messages)
	assert.LessOrEqual(t, len(issues), 9)
}

func TestCalculateScore(t *testing.T) {
	critical := SeoIssue{Severity: SeverityCritical}
	warning := SeoIssue{Severity: SeverityWarning}
	info := SeoIssue{Severity: SeverityInfo}

	tests := []struct {
		name   string
		issues []SeoIssue
		want   int
	}{
		{"no issues", nil, 100},
		{"one of each", []SeoIssue{critical, warning, info}, 65},
		{"scenario two", []SeoIssue{critical, critical, critical, warning}, 30},
		{"exactly zero", []SeoIssue{critical, critical, critical, critical, critical}, 0},
		{"saturates", []SeoIssue{critical, critical, critical, critical, critical, critical, warning, info}, 0},
		{"unknown severity is free", []SeoIssue{{Severity: "Other"}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := CalculateScore(tt.issues)
			assert.Equal(t, tt.want, score)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		})
	}
}

func TestAnalyzeHTML_Invariants(t *testing.T) {
	pages := []string{
		"",
		"<p>no title anywhere</p>",
		"<title>T</title><h1>x</h1>",
		"<title>" + strings.Repeat("long ", 30) + "</title><h1>a</h1><h1>b</h1><img><img alt=''>",
		perfectPage,
	}

	for _, page := range pages {
		report, err := AnalyzeHTML("https://example.com/", page)
		assert.NoError(t, err)

		assert.GreaterOrEqual(t, report.Score, 0)
		assert.LessOrEqual(t, report.Score, 100)
		assert.LessOrEqual(t, len(report.Issues), 9)
		assert.Equal(t, len(report.H1Tags) == 0, containsIssue(report.Issues, issueH1Missing))
		assert.Equal(t, report.Title == nil, containsIssue(report.Issues, issueTitleMissing))
	}
}

func containsIssue(issues []SeoIssue, want SeoIssue) bool {
	for _, issue := range issues {
		if issue == want {
			return true
		}
	}
	return false
}
