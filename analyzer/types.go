package analyzer

// IssueSeverity classifies an issue and determines its score penalty
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "Critical"
	SeverityWarning  IssueSeverity = "Warning"
	SeverityInfo     IssueSeverity = "Info"
)

// Penalty returns the number of points the severity removes from the score
func (s IssueSeverity) Penalty() int {
	switch s {
	case SeverityCritical:
		return 20
	case SeverityWarning:
		return 10
	case SeverityInfo:
		return 5
	default:
		return 0
	}
}

// SeoIssue is a single finding produced by the issue rules
type SeoIssue struct {
	Severity       IssueSeverity `json:"severity"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
}

// SeoReport represents the complete analysis of a webpage.
// Optional values are nil when absent and serialize as null.
type SeoReport struct {
	URL              string             `json:"url"`
	Title            *string            `json:"title"`
	MetaDescription  *string            `json:"meta_description"`
	H1Tags           []string           `json:"h1_tags"`
	H2Tags           []string           `json:"h2_tags"`
	KeywordDensity   map[string]float64 `json:"keyword_density"`
	ImagesWithoutAlt int                `json:"images_without_alt"`
	InternalLinks    int                `json:"internal_links"`
	ExternalLinks    int                `json:"external_links"`
	PageSize         *int64             `json:"page_size"`
	LoadTime         *float64           `json:"load_time"`
	StructuredData   []string           `json:"structured_data"`
	Issues           []SeoIssue         `json:"issues"`
	Score            int                `json:"score"`
}

// MetaReport lists the meta tags of a page and its Open Graph coverage
type MetaReport struct {
	URL              string            `json:"url"`
	MetaTags         map[string]string `json:"meta_tags"`
	OpenGraph        []string          `json:"open_graph"`
	MissingOpenGraph []string          `json:"missing_open_graph"`
}
