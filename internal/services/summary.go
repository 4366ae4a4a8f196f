package services

import (
	"math"

	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
)

// BuildSummary reduces a crawl's page records into crawl-level
// statistics. It is a pure function over the persisted pages, so calling
// it twice on the same set yields identical output.
func BuildSummary(pages []model.Page) model.Summary {
	sum := model.Summary{TotalPages: len(pages)}
	if len(pages) == 0 {
		return sum
	}

	scoreTotal := 0
	responseTotal := 0.0

	for _, p := range pages {
		scoreTotal += p.Score
		responseTotal += p.ResponseTime

		for _, is := range p.Issues {
			switch is.Severity {
			case model.SeverityCritical:
				sum.CriticalIssues++
			case model.SeverityWarning:
				sum.Warnings++
			case model.SeverityInfo:
				sum.InfoIssues++
			}
		}

		if p.Signals.Title == "" {
			sum.PagesMissingTitle++
		}
		if p.Signals.MetaDescription == "" {
			sum.PagesMissingMeta++
		}
		if p.Signals.H1Count == 0 {
			sum.PagesMissingH1++
		}
		if !p.Signals.HasViewportMeta {
			sum.PagesMissingViewport++
		}
		if !p.Signals.HasSchemaMarkup {
			sum.PagesWithoutSchema++
		}
	}

	sum.AvgScore = int(math.Round(float64(scoreTotal) / float64(len(pages))))
	sum.AvgResponseTime = math.Round(responseTotal/float64(len(pages))*1000) / 1000

	return sum
}
