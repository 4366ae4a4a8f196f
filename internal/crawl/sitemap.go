package crawl

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/url"
)

// Nested sitemap indexes are followed one level deep; that covers the
// common sitemap_index.xml -> urlset layout without unbounded recursion.
const maxSitemapDepth = 1

// collectFromSitemap tries the conventional /sitemap.xml location and
// passes every discovered URL to add. It understands plain urlset
// sitemaps and one level of sitemap index indirection.
func collectFromSitemap(ctx context.Context, client *http.Client, base *url.URL, add func(url string)) error {
	sitemapURL := &url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   "/sitemap.xml",
	}
	return collectSitemapURL(ctx, client, sitemapURL.String(), 0, add)
}

func collectSitemapURL(ctx context.Context, client *http.Client, sitemapURL string, depth int, add func(url string)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New("non-200 sitemap")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	type locEntry struct {
		Loc string `xml:"loc"`
	}
	// Matches both <urlset> and <sitemapindex> roots.
	type urlSet struct {
		URLs     []locEntry `xml:"url"`
		Sitemaps []locEntry `xml:"sitemap"`
	}

	var us urlSet
	if err := xml.Unmarshal(body, &us); err != nil {
		return err
	}

	for _, ue := range us.URLs {
		add(ue.Loc)
	}

	// Sitemap index: recurse into child sitemaps.
	if depth < maxSitemapDepth {
		for _, sm := range us.Sitemaps {
			if sm.Loc == "" {
				continue
			}
			_ = collectSitemapURL(ctx, client, sm.Loc, depth+1, add)
		}
	}

	return nil
}
