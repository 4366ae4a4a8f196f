package analyze

import (
	"fmt"

	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
)

// Title and meta description length bounds, in characters.
const (
	maxTitleLength = 60
	minTitleLength = 10
	maxMetaLength  = 160
	minWordCount   = 300
)

// Evaluate runs the fixed audit rule set against a page's signals. It is
// deterministic and pure: the same signals always yield the same issues,
// and rule order defines message order. A page with no triggering
// conditions yields an empty list.
func Evaluate(sig *model.PageSignals) []model.Issue {
	issues := []model.Issue{}
	add := func(sev model.Severity, msg string) {
		issues = append(issues, model.Issue{Severity: sev, Message: msg})
	}

	if sig.Title == "" {
		add(model.SeverityCritical, "missing title")
	} else if sig.TitleLength > maxTitleLength {
		add(model.SeverityWarning, fmt.Sprintf("title too long (%d chars, max %d)", sig.TitleLength, maxTitleLength))
	} else if sig.TitleLength < minTitleLength {
		add(model.SeverityWarning, fmt.Sprintf("title too short (%d chars, min %d)", sig.TitleLength, minTitleLength))
	}

	if sig.MetaDescription == "" {
		add(model.SeverityWarning, "missing meta description")
	} else if sig.MetaDescriptionLength > maxMetaLength {
		add(model.SeverityWarning, fmt.Sprintf("meta description too long (%d chars, max %d)", sig.MetaDescriptionLength, maxMetaLength))
	}

	if sig.H1Count == 0 {
		add(model.SeverityCritical, "missing h1")
	} else if sig.H1Count > 1 {
		add(model.SeverityWarning, fmt.Sprintf("page has %d h1 headings, use only one", sig.H1Count))
	}

	if sig.ImagesWithoutAlt > 0 {
		add(model.SeverityWarning, fmt.Sprintf("%d images missing alt", sig.ImagesWithoutAlt))
	}

	if sig.CanonicalURL == "" {
		add(model.SeverityInfo, "missing canonical URL")
	}

	if !sig.HasViewportMeta {
		add(model.SeverityWarning, "missing viewport meta tag")
	}

	if sig.WordCount < minWordCount {
		add(model.SeverityWarning, fmt.Sprintf("thin content: only %d words", sig.WordCount))
	}

	if sig.StatusCode >= 400 {
		add(model.SeverityCritical, fmt.Sprintf("HTTP error status %d", sig.StatusCode))
	} else if sig.StatusCode >= 300 {
		add(model.SeverityWarning, fmt.Sprintf("unresolved redirect status %d", sig.StatusCode))
	}

	return issues
}
