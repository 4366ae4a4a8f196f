package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for HTTP requests and crawls.
// This is intentionally minimal and in-memory only.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)

	pagesCrawledTotal = make(map[string]int64)
	crawlsTotal       = make(map[string]int64)
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

// RecordRequest increments request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordPageCrawled increments the crawled-page counter, labelled by the
// HTTP status class of the fetched page.
func RecordPageCrawled(statusCode int) {
	mu.Lock()
	defer mu.Unlock()
	pagesCrawledTotal[statusClass(statusCode)]++
}

// RecordCrawl increments the finished-crawl counter for a terminal status.
func RecordCrawl(status string) {
	mu.Lock()
	defer mu.Unlock()
	crawlsTotal[status]++
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "error"
	}
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP seocrawler_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE seocrawler_http_requests_total counter\n")

	// Sort keys for stable output
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})

	for _, k := range reqKeys {
		v := requestsTotal[k]
		fmt.Fprintf(&b, "seocrawler_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, v)
	}

	b.WriteString("# HELP seocrawler_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE seocrawler_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP seocrawler_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE seocrawler_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})

	for _, k := range latKeys {
		sum := latencyMsSum[k]
		cnt := latencyMsCount[k]
		fmt.Fprintf(&b, "seocrawler_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, sum)
		fmt.Fprintf(&b, "seocrawler_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, cnt)
	}

	// Crawl metrics
	b.WriteString("# HELP seocrawler_pages_crawled_total Total pages crawled by HTTP status class\n")
	b.WriteString("# TYPE seocrawler_pages_crawled_total counter\n")

	var classes []string
	for c := range pagesCrawledTotal {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for _, c := range classes {
		fmt.Fprintf(&b, "seocrawler_pages_crawled_total{class=\"%s\"} %d\n", c, pagesCrawledTotal[c])
	}

	b.WriteString("# HELP seocrawler_crawls_total Total finished crawls by terminal status\n")
	b.WriteString("# TYPE seocrawler_crawls_total counter\n")

	var statuses []string
	for s := range crawlsTotal {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(&b, "seocrawler_crawls_total{status=\"%s\"} %d\n", s, crawlsTotal[s])
	}

	return b.String()
}
