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

func TestFetchRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "audit-bot" {
			t.Errorf("expected User-Agent audit-bot, got %q", got)
		}
		fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	base, _ := url.Parse(srv.URL)
	data, err := fetchRobots(context.Background(), &http.Client{Timeout: 2 * time.Second}, base, "audit-bot")
	if err != nil {
		t.Fatalf("fetchRobots returned error: %v", err)
	}

	grp := data.FindGroup("audit-bot")
	if grp == nil {
		t.Fatal("expected a matching robots group")
	}
	if grp.Test("/private") {
		t.Fatal("/private must be disallowed")
	}
	if !grp.Test("/public") {
		t.Fatal("/public must be allowed")
	}
}

func TestFetchRobotsMissing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	base, _ := url.Parse(srv.URL)
	if _, err := fetchRobots(context.Background(), &http.Client{Timeout: 2 * time.Second}, base, ""); err == nil {
		t.Fatal("expected an error for a missing robots.txt")
	}
}
