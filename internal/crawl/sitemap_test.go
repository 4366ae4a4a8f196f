package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func sitemapClient() *http.Client {
	return &http.Client{Timeout: 2 * time.Second}
}

func TestCollectFromSitemapURLSet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc></url>
  <url><loc>https://example.com/b</loc></url>
</urlset>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	base, _ := url.Parse(srv.URL)
	var got []string
	err := collectFromSitemap(context.Background(), sitemapClient(), base, func(u string) {
		got = append(got, u)
	})
	if err != nil {
		t.Fatalf("collectFromSitemap returned error: %v", err)
	}

	want := []string{"https://example.com/a", "https://example.com/b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCollectFromSitemapIndex(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>%s/sitemap-pages.xml</loc></sitemap>
  <sitemap><loc>%s/sitemap-nested.xml</loc></sitemap>
</sitemapindex>`, srvURL, srvURL)
	})
	mux.HandleFunc("/sitemap-pages.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, `<urlset><url><loc>https://example.com/from-child</loc></url></urlset>`)
	})
	// An index inside an index is past the recursion limit and must be
	// left alone.
	mux.HandleFunc("/sitemap-nested.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<sitemapindex><sitemap><loc>%s/sitemap-deep.xml</loc></sitemap></sitemapindex>`, srvURL)
	})
	mux.HandleFunc("/sitemap-deep.xml", func(w http.ResponseWriter, r *http.Request) {
		t.Error("second-level sitemap index must not be fetched")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	base, _ := url.Parse(srv.URL)
	var got []string
	err := collectFromSitemap(context.Background(), sitemapClient(), base, func(u string) {
		got = append(got, u)
	})
	if err != nil {
		t.Fatalf("collectFromSitemap returned error: %v", err)
	}

	if len(got) != 1 || got[0] != "https://example.com/from-child" {
		t.Fatalf("expected the child urlset entry only, got %v", got)
	}
}

func TestCollectFromSitemapMissing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	base, _ := url.Parse(srv.URL)
	err := collectFromSitemap(context.Background(), sitemapClient(), base, func(string) {
		t.Error("no URLs must be reported for a missing sitemap")
	})
	if err == nil {
		t.Fatal("expected an error for a 404 sitemap")
	}
}
