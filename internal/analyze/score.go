package analyze

import "github.com/tudorhoriadaniel/seo-crawler/internal/model"

// Per-issue score deductions by severity.
const (
	criticalPenalty = 20
	warningPenalty  = 8
	infoPenalty     = 2
)

// Score reduces a page's issue list into a 0-100 health score. It starts
// at 100 and deducts a fixed weight per issue, floored at zero.
func Score(issues []model.Issue) int {
	score := 100
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityCritical:
			score -= criticalPenalty
		case model.SeverityWarning:
			score -= warningPenalty
		case model.SeverityInfo:
			score -= infoPenalty
		}
	}
	if score < 0 {
		return 0
	}
	return score
}
