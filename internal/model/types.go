package model

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies how badly an issue hurts a page's SEO health.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is a single rule violation detected on a page. Issues are value
// types embedded in a Page record; they are never addressed individually.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// PageSignals is the structured output of the HTML signal extractor for a
// single page. Every numeric, boolean, and list field always serializes
// with a defined default (0, false, empty list) because the dashboard
// renders them unconditionally.
type PageSignals struct {
	StatusCode            int      `json:"statusCode"`
	Title                 string   `json:"title"`
	TitleLength           int      `json:"titleLength"`
	MetaDescription       string   `json:"metaDescription"`
	MetaDescriptionLength int      `json:"metaDescriptionLength"`
	CanonicalURL          string   `json:"canonicalUrl"`
	RobotsMeta            string   `json:"robotsMeta"`
	H1Count               int      `json:"h1Count"`
	H2Count               int      `json:"h2Count"`
	H3Count               int      `json:"h3Count"`
	H1Texts               []string `json:"h1Texts"`
	WordCount             int      `json:"wordCount"`
	TotalImages           int      `json:"totalImages"`
	ImagesWithoutAlt      int      `json:"imagesWithoutAlt"`
	InternalLinks         int      `json:"internalLinks"`
	ExternalLinks         int      `json:"externalLinks"`
	HasSchemaMarkup       bool     `json:"hasSchemaMarkup"`
	SchemaTypes           []string `json:"schemaTypes"`
	HasViewportMeta       bool     `json:"hasViewportMeta"`
	OgTitle               string   `json:"ogTitle"`
	OgDescription         string   `json:"ogDescription"`

	// DiscoveredLinks feeds the crawl frontier: resolved, normalized
	// internal anchor targets, de-duplicated within the page. Not part
	// of the persisted record.
	DiscoveredLinks []string `json:"-"`
}

// Project is a named seed URL created by a user. Immutable once created;
// re-crawls reuse it.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// Crawl is one execution of the site traversal for a project.
type Crawl struct {
	ID           uuid.UUID  `json:"id"`
	ProjectID    uuid.UUID  `json:"projectId"`
	Status       string     `json:"status"`
	PagesCrawled int        `json:"pagesCrawled"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
}

// Page is the immutable audit record for a single fetched URL.
type Page struct {
	ID           uuid.UUID   `json:"id"`
	CrawlID      uuid.UUID   `json:"crawlId"`
	URL          string      `json:"url"`
	ResponseTime float64     `json:"responseTime"`
	Signals      PageSignals `json:"signals"`
	Issues       []Issue     `json:"issues"`
	Score        int         `json:"score"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Summary is the crawl-level aggregate computed from all page records.
// It holds no independent state and is re-computable at any time.
type Summary struct {
	TotalPages           int     `json:"totalPages"`
	AvgScore             int     `json:"avgScore"`
	CriticalIssues       int     `json:"criticalIssues"`
	Warnings             int     `json:"warnings"`
	InfoIssues           int     `json:"infoIssues"`
	PagesMissingTitle    int     `json:"pagesMissingTitle"`
	PagesMissingMeta     int     `json:"pagesMissingMeta"`
	PagesMissingH1       int     `json:"pagesMissingH1"`
	PagesMissingViewport int     `json:"pagesMissingViewport"`
	PagesWithoutSchema   int     `json:"pagesWithoutSchema"`
	AvgResponseTime      float64 `json:"avgResponseTime"`
}
