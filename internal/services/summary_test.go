package services

import (
	"reflect"
	"testing"

	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
)

func TestBuildSummaryEmpty(t *testing.T) {
	sum := BuildSummary(nil)
	if sum.TotalPages != 0 || sum.AvgScore != 0 || sum.AvgResponseTime != 0 {
		t.Fatalf("empty crawl must yield a zero summary, got %+v", sum)
	}
}

func TestBuildSummaryAggregates(t *testing.T) {
	pages := []model.Page{
		{
			Score:        80,
			ResponseTime: 0.2,
			Signals: model.PageSignals{
				Title:           "Home",
				MetaDescription: "desc",
				H1Count:         1,
				HasViewportMeta: true,
				HasSchemaMarkup: true,
			},
			Issues: []model.Issue{
				{Severity: model.SeverityWarning, Message: "w"},
				{Severity: model.SeverityInfo, Message: "i"},
			},
		},
		{
			Score:        33,
			ResponseTime: 0.4,
			Signals:      model.PageSignals{},
			Issues: []model.Issue{
				{Severity: model.SeverityCritical, Message: "c"},
				{Severity: model.SeverityCritical, Message: "c2"},
				{Severity: model.SeverityWarning, Message: "w"},
			},
		},
	}

	sum := BuildSummary(pages)

	if sum.TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", sum.TotalPages)
	}
	// mean of 80 and 33 is 56.5, rounded to 57
	if sum.AvgScore != 57 {
		t.Fatalf("expected avg score 57, got %d", sum.AvgScore)
	}
	if sum.CriticalIssues != 2 || sum.Warnings != 2 || sum.InfoIssues != 1 {
		t.Fatalf("unexpected issue counts: %+v", sum)
	}
	if sum.PagesMissingTitle != 1 || sum.PagesMissingMeta != 1 || sum.PagesMissingH1 != 1 {
		t.Fatalf("unexpected missing-signal counts: %+v", sum)
	}
	if sum.PagesMissingViewport != 1 || sum.PagesWithoutSchema != 1 {
		t.Fatalf("unexpected viewport/schema counts: %+v", sum)
	}
	if sum.AvgResponseTime != 0.3 {
		t.Fatalf("expected avg response time 0.3, got %v", sum.AvgResponseTime)
	}
}

func TestBuildSummaryIdempotent(t *testing.T) {
	pages := []model.Page{
		{Score: 52, ResponseTime: 0.123, Issues: []model.Issue{{Severity: model.SeverityCritical, Message: "c"}}},
		{Score: 90, ResponseTime: 0.456},
	}

	first := BuildSummary(pages)
	second := BuildSummary(pages)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("summary must be idempotent: %+v vs %+v", first, second)
	}
}
