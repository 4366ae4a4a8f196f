package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/tudorhoriadaniel/seo-crawler/internal/config"
	"github.com/tudorhoriadaniel/seo-crawler/internal/store"
)

func testServer() *Server {
	cfg := &config.Config{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServer(cfg, store.New(nil), nil, logger)
}

func TestHealthzShallow(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	out, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(out), "seocrawler_http_requests_total") {
		t.Fatalf("expected metrics text, got:\n%s", out)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	s := testServer()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing name", `{"url": "https://example.com"}`},
		{"missing url", `{"name": "Example"}`},
		{"relative url", `{"name": "Example", "url": "/just/a/path"}`},
		{"bad scheme", `{"name": "Example", "url": "ftp://example.com"}`},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/projects", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.app.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.name, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, resp.StatusCode)
		}

		var er ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			t.Fatalf("%s: decode failed: %v", tc.name, err)
		}
		if er.Success {
			t.Fatalf("%s: error envelope must have success=false", tc.name)
		}
		if er.Code == "" || er.Error == "" {
			t.Fatalf("%s: error envelope missing code/message: %+v", tc.name, er)
		}
	}
}

func TestInvalidIDsAreRejected(t *testing.T) {
	s := testServer()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/projects/not-a-uuid"},
		{http.MethodDelete, "/v1/projects/not-a-uuid"},
		{http.MethodGet, "/v1/projects/not-a-uuid/crawls"},
		{http.MethodGet, "/v1/crawls/not-a-uuid"},
		{http.MethodGet, "/v1/crawls/not-a-uuid/pages"},
		{http.MethodGet, "/v1/crawls/not-a-uuid/summary"},
		{http.MethodPost, "/v1/crawls/not-a-uuid/cancel"},
		{http.MethodGet, "/v1/pages/not-a-uuid"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp, err := s.app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: request failed: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestStartCrawlRequiresProjectID(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodPost, "/v1/crawls", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
