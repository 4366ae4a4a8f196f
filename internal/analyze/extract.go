package analyze

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
)

// Extract parses a fetched HTML document into its SEO signal set. It is a
// pure function: no network access, best-effort on malformed markup.
// Missing elements yield zero values; only genuinely unparseable input
// returns an error alongside an all-empty signal set.
func Extract(pageURL string, html []byte) (*model.PageSignals, error) {
	sig := &model.PageSignals{
		H1Texts:     []string{},
		SchemaTypes: []string{},
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return sig, err
	}

	extractTitle(doc, sig)
	extractMeta(doc, base, sig)
	extractHeadings(doc, sig)
	extractImages(doc, sig)
	extractLinks(doc, base, sig)
	extractSchema(doc, sig)
	extractWordCount(doc, sig)

	return sig, nil
}

func extractTitle(doc *goquery.Document, sig *model.PageSignals) {
	sig.Title = strings.TrimSpace(doc.Find("title").First().Text())
	sig.TitleLength = len([]rune(sig.Title))
}

func extractMeta(doc *goquery.Document, base *url.URL, sig *model.PageSignals) {
	sig.MetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	sig.MetaDescriptionLength = len([]rune(sig.MetaDescription))

	sig.RobotsMeta = strings.TrimSpace(doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
	sig.HasViewportMeta = doc.Find(`meta[name="viewport"]`).Length() > 0

	sig.OgTitle = doc.Find(`meta[property="og:title"]`).AttrOr("content", "")
	sig.OgDescription = doc.Find(`meta[property="og:description"]`).AttrOr("content", "")

	canonical := strings.TrimSpace(doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	if canonical != "" {
		if cu, err := url.Parse(canonical); err == nil {
			if base != nil && !cu.IsAbs() {
				cu = base.ResolveReference(cu)
			}
			sig.CanonicalURL = cu.String()
		}
	}
}

func extractHeadings(doc *goquery.Document, sig *model.PageSignals) {
	doc.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		sig.H1Texts = append(sig.H1Texts, strings.TrimSpace(sel.Text()))
	})
	sig.H1Count = len(sig.H1Texts)
	sig.H2Count = doc.Find("h2").Length()
	sig.H3Count = doc.Find("h3").Length()
}

func extractImages(doc *goquery.Document, sig *model.PageSignals) {
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		sig.TotalImages++
		alt, ok := sel.Attr("alt")
		if !ok || strings.TrimSpace(alt) == "" {
			sig.ImagesWithoutAlt++
		}
	})
}

// extractLinks classifies anchors as internal or external by the host of
// the resolved target and collects normalized internal targets for the
// frontier. Anchors with no href, fragment-only hrefs, and mailto:/tel:
// style schemes count toward neither bucket.
func extractLinks(doc *goquery.Document, base *url.URL, sig *model.PageSignals) {
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		for _, p := range []string{"mailto:", "tel:", "javascript:", "data:"} {
			if strings.HasPrefix(lower, p) {
				return
			}
		}

		target, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil && !target.IsAbs() {
			target = base.ResolveReference(target)
		}
		if target.Scheme != "http" && target.Scheme != "https" {
			return
		}

		if base != nil && sameHost(base.Hostname(), target.Hostname()) {
			sig.InternalLinks++
			target.Fragment = ""
			norm := target.String()
			if _, dup := seen[norm]; !dup {
				seen[norm] = struct{}{}
				sig.DiscoveredLinks = append(sig.DiscoveredLinks, norm)
			}
		} else {
			sig.ExternalLinks++
		}
	})
}

func sameHost(a, b string) bool {
	return stripWWW(a) == stripWWW(b)
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// extractSchema collects structured-data type names from JSON-LD blocks
// (including @graph containers and top-level arrays) and from microdata
// itemtype attributes.
func extractSchema(doc *goquery.Document, sig *model.PageSignals) {
	seen := make(map[string]struct{})
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		sig.SchemaTypes = append(sig.SchemaTypes, t)
	}

	collect := func(v any) {
		switch data := v.(type) {
		case map[string]any:
			if t, ok := data["@type"].(string); ok {
				add(t)
			}
			if graph, ok := data["@graph"].([]any); ok {
				for _, item := range graph {
					if m, ok := item.(map[string]any); ok {
						if t, ok := m["@type"].(string); ok {
							add(t)
						}
					}
				}
			}
		case []any:
			for _, item := range data {
				if m, ok := item.(map[string]any); ok {
					if t, ok := m["@type"].(string); ok {
						add(t)
					}
				}
			}
		}
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(sel.Text()), &v); err != nil {
			return
		}
		collect(v)
	})

	doc.Find("[itemtype]").Each(func(_ int, sel *goquery.Selection) {
		itemtype := strings.TrimSpace(sel.AttrOr("itemtype", ""))
		if itemtype == "" {
			return
		}
		// Microdata types are schema.org URLs; keep the last path segment.
		if idx := strings.LastIndex(itemtype, "/"); idx >= 0 {
			itemtype = itemtype[idx+1:]
		}
		add(itemtype)
	})

	sig.HasSchemaMarkup = len(sig.SchemaTypes) > 0
}

// extractWordCount counts whitespace-delimited tokens in the visible text,
// with script, style, and noscript content removed.
func extractWordCount(doc *goquery.Document, sig *model.PageSignals) {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript").Remove()
	sig.WordCount = len(strings.Fields(clone.Text()))
}
