package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is the outcome of a single bounded GET. Ordinary HTTP error
// statuses (4xx/5xx) are results, not errors; Fetch returns an error only
// for transport failures (DNS, connect, TLS, timeout, too many redirects).
type Result struct {
	StatusCode  int
	Body        []byte
	FinalURL    string
	ContentType string
	Elapsed     time.Duration
}

// Client performs bounded page fetches with redirect following.
type Client struct {
	http      *http.Client
	userAgent string
}

// Options configures a fetch client. Zero values fall back to sane
// defaults (10s timeout, 5 redirect hops).
type Options struct {
	Timeout            time.Duration
	MaxRedirects       int
	UserAgent          string
	InsecureSkipVerify bool
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 5
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
	}
}

// Fetch retrieves a single URL, following redirects up to the configured
// hop limit. FinalURL is the URL of the response actually served, which
// may differ from the requested one after redirects.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Result{
		StatusCode:  resp.StatusCode,
		Body:        body,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     elapsed,
	}, nil
}
