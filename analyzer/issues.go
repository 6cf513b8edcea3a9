package analyzer

import (
	"fmt"
	"unicode/utf8"
)

// Length bounds used by the issue rules, in characters
const (
	minTitleLength           = 30
	maxTitleLength           = 60
	minMetaDescriptionLength = 120
	maxMetaDescriptionLength = 160
)

var (
	issueTitleMissing = SeoIssue{
		Severity:       SeverityCritical,
		Message:        "Título ausente",
		Recommendation: "Adicione um título à página usando a tag <title>",
	}
	issueTitleTooShort = SeoIssue{
		Severity:       SeverityWarning,
		Message:        "Título muito curto",
		Recommendation: "O título deve ter pelo menos 30 caracteres",
	}
	issueTitleTooLong = SeoIssue{
		Severity:       SeverityWarning,
		Message:        "Título muito longo",
		Recommendation: "O título deve ter no máximo 60 caracteres",
	}
	issueMetaMissing = SeoIssue{
		Severity:       SeverityCritical,
		Message:        "Meta description ausente",
		Recommendation: "Adicione uma meta description à página",
	}
	issueMetaTooShort = SeoIssue{
		Severity:       SeverityWarning,
		Message:        "Meta description muito curta",
		Recommendation: "A meta description deve ter pelo menos 120 caracteres",
	}
	issueMetaTooLong = SeoIssue{
		Severity:       SeverityWarning,
		Message:        "Meta description muito longa",
		Recommendation: "A meta description deve ter no máximo 160 caracteres",
	}
	issueH1Missing = SeoIssue{
		Severity:       SeverityCritical,
		Message:        "Tag H1 ausente",
		Recommendation: "Adicione pelo menos uma tag H1 à página",
	}
	issueMultipleH1 = SeoIssue{
		Severity:       SeverityWarning,
		Message:        "Múltiplas tags H1",
		Recommendation: "Use apenas uma tag H1 por página",
	}
)

func imagesWithoutAltIssue(count int) SeoIssue {
	return SeoIssue{
		Severity:       SeverityWarning,
		Message:        fmt.Sprintf("%d imagens sem texto alternativo", count),
		Recommendation: "Adicione texto alternativo a todas as imagens",
	}
}

// GenerateIssues applies the rules in a fixed order: title, meta description,
// H1, image alt text. The order of the result is stable.
func GenerateIssues(report *SeoReport) []SeoIssue {
	issues := make([]SeoIssue, 0, 4)

	if report.Title == nil {
		issues = append(issues, issueTitleMissing)
	} else if length := utf8.RuneCountInString(*report.Title); length < minTitleLength {
		issues = append(issues, issueTitleTooShort)
	} else if length > maxTitleLength {
		issues = append(issues, issueTitleTooLong)
	}

	if report.MetaDescription == nil {
		issues = append(issues, issueMetaMissing)
	} else if length := utf8.RuneCountInString(*report.MetaDescription); length < minMetaDescriptionLength {
		issues = append(issues, issueMetaTooShort)
	} else if length > maxMetaDescriptionLength {
		issues = append(issues, issueMetaTooLong)
	}

	switch {
	case len(report.H1Tags) == 0:
		issues = append(issues, issueH1Missing)
	case len(report.H1Tags) > 1:
		issues = append(issues, issueMultipleH1)
	}

	if report.ImagesWithoutAlt > 0 {
		issues = append(issues, imagesWithoutAltIssue(report.ImagesWithoutAlt))
	}

	return issues
}

// CalculateScore starts at 100 and subtracts each issue's penalty, never going below zero
func CalculateScore(issues []SeoIssue) int {
	score := 100
	for _, issue := range issues {
		score -= issue.Severity.Penalty()
		if score < 0 {
			score = 0
		}
	}
	return score
}
