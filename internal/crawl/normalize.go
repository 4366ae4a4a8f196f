package crawl

import (
	"net/url"
	"strings"
)

// File extensions that are never HTML pages and must not enter the
// frontier.
var skipExtensions = map[string]struct{}{
	".json": {}, ".xml": {}, ".rss": {}, ".atom": {}, ".rdf": {},
	".css": {}, ".js": {}, ".mjs": {}, ".map": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".zip": {}, ".gz": {}, ".tar": {}, ".rar": {}, ".7z": {}, ".bz2": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".ico": {}, ".bmp": {}, ".avif": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".webm": {}, ".ogg": {}, ".wav": {},
	".exe": {}, ".dmg": {}, ".apk": {}, ".ics": {}, ".vcf": {}, ".csv": {}, ".txt": {}, ".log": {},
}

// URL path prefixes for known non-HTML endpoints.
var skipPathPrefixes = []string{
	"/wp-json", "/feed", "/xmlrpc.php", "/wp-admin/", "/api/", "/_api/",
}

// Normalize canonicalizes a URL for frontier deduplication: lowercase
// scheme and host, strip a leading www., drop the fragment, and trim the
// trailing slash. The query string is preserved, so a URL differing only
// by query is a distinct page.
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		// Scheme-less input parses as a bare path; reparse with a default.
		u, err = url.Parse("http://" + rawURL)
		if err != nil {
			return "", err
		}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = stripWWW(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	return u.String(), nil
}

// SameSite reports whether two hosts belong to the same site, ignoring
// case and a leading www.
func SameSite(a, b string) bool {
	return stripWWW(a) == stripWWW(b)
}

func stripWWW(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// ShouldSkip reports whether a URL points at a resource that cannot be an
// HTML page (asset extensions, feed/API endpoints).
func ShouldSkip(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	path := strings.ToLower(u.Path)

	if dot := strings.LastIndex(path, "."); dot != -1 {
		if _, ok := skipExtensions[path[dot:]]; ok {
			return true
		}
	}

	for _, prefix := range skipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
