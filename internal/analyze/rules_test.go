package analyze

import (
	"strings"
	"testing"

	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
)

// cleanSignals returns a signal set that violates no rule.
func cleanSignals() *model.PageSignals {
	return &model.PageSignals{
		StatusCode:            200,
		Title:                 "A perfectly sized page title",
		TitleLength:           28,
		MetaDescription:       "A useful meta description for this page.",
		MetaDescriptionLength: 40,
		CanonicalURL:          "https://example.com/page",
		H1Count:               1,
		H1Texts:               []string{"Heading"},
		WordCount:             500,
		HasViewportMeta:       true,
	}
}

func TestEvaluateCleanPage(t *testing.T) {
	issues := Evaluate(cleanSignals())
	if issues == nil {
		t.Fatal("expected empty issue list, got nil")
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues for a clean page, got %v", issues)
	}
	if score := Score(issues); score != 100 {
		t.Fatalf("expected score 100 for a clean page, got %d", score)
	}
}

func TestEvaluateTitleLengthBoundary(t *testing.T) {
	sig := cleanSignals()

	sig.TitleLength = 60
	for _, is := range Evaluate(sig) {
		if strings.Contains(is.Message, "title too long") {
			t.Fatalf("title of exactly 60 chars must not warn: %v", is)
		}
	}

	sig.TitleLength = 61
	found := false
	for _, is := range Evaluate(sig) {
		if strings.Contains(is.Message, "title too long") {
			found = true
			if is.Severity != model.SeverityWarning {
				t.Fatalf("title too long must be a warning, got %s", is.Severity)
			}
		}
	}
	if !found {
		t.Fatal("title of 61 chars must trigger the too-long warning")
	}
}

func TestEvaluateMissingEssentials(t *testing.T) {
	sig := cleanSignals()
	sig.Title = ""
	sig.TitleLength = 0
	sig.H1Count = 0
	sig.H1Texts = []string{}
	sig.TotalImages = 3
	sig.ImagesWithoutAlt = 3

	issues := Evaluate(sig)
	if len(issues) != 3 {
		t.Fatalf("expected exactly 3 issues, got %v", issues)
	}

	if issues[0].Severity != model.SeverityCritical || issues[0].Message != "missing title" {
		t.Fatalf("unexpected first issue: %+v", issues[0])
	}
	if issues[1].Severity != model.SeverityCritical || issues[1].Message != "missing h1" {
		t.Fatalf("unexpected second issue: %+v", issues[1])
	}
	if issues[2].Severity != model.SeverityWarning || issues[2].Message != "3 images missing alt" {
		t.Fatalf("unexpected third issue: %+v", issues[2])
	}

	if score := Score(issues); score != 52 {
		t.Fatalf("expected score 52 (100-20-20-8), got %d", score)
	}
}

func TestEvaluateMultipleH1(t *testing.T) {
	sig := cleanSignals()
	sig.H1Count = 3
	sig.H1Texts = []string{"a", "b", "c"}

	found := false
	for _, is := range Evaluate(sig) {
		if is.Message == "page has 3 h1 headings, use only one" {
			found = true
			if is.Severity != model.SeverityWarning {
				t.Fatalf("multiple h1 must be a warning, got %s", is.Severity)
			}
		}
	}
	if !found {
		t.Fatal("expected a multiple-h1 warning")
	}
}

func TestEvaluateStatusRules(t *testing.T) {
	sig := cleanSignals()

	sig.StatusCode = 404
	issues := Evaluate(sig)
	if len(issues) != 1 || issues[0].Severity != model.SeverityCritical || issues[0].Message != "HTTP error status 404" {
		t.Fatalf("unexpected issues for 404: %v", issues)
	}

	sig.StatusCode = 301
	issues = Evaluate(sig)
	if len(issues) != 1 || issues[0].Severity != model.SeverityWarning || issues[0].Message != "unresolved redirect status 301" {
		t.Fatalf("unexpected issues for 301: %v", issues)
	}
}

func TestScoreMonotoneAndBounded(t *testing.T) {
	issues := []model.Issue{}
	prev := Score(issues)
	if prev != 100 {
		t.Fatalf("empty issue list must score 100, got %d", prev)
	}

	add := []model.Issue{
		{Severity: model.SeverityInfo, Message: "i"},
		{Severity: model.SeverityWarning, Message: "w"},
		{Severity: model.SeverityCritical, Message: "c"},
		{Severity: model.SeverityCritical, Message: "c2"},
	}
	for _, is := range add {
		issues = append(issues, is)
		score := Score(issues)
		if score > prev {
			t.Fatalf("score increased from %d to %d after adding %s issue", prev, score, is.Severity)
		}
		prev = score
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	issues := make([]model.Issue, 0, 10)
	for i := 0; i < 10; i++ {
		issues = append(issues, model.Issue{Severity: model.SeverityCritical, Message: "c"})
	}
	if score := Score(issues); score != 0 {
		t.Fatalf("expected floor of 0, got %d", score)
	}
}

func TestScoreWeights(t *testing.T) {
	issues := []model.Issue{
		{Severity: model.SeverityCritical, Message: "c"},
		{Severity: model.SeverityWarning, Message: "w"},
		{Severity: model.SeverityWarning, Message: "w2"},
		{Severity: model.SeverityInfo, Message: "i"},
	}
	if score := Score(issues); score != 100-20-8-8-2 {
		t.Fatalf("expected %d, got %d", 100-20-8-8-2, score)
	}
}
