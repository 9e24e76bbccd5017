package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/job-scout/internal/antiblock"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

// FetchError represents an error during an HTTP page fetch.
type FetchError struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// HTTPLauncher creates drivers that load pages with plain GET requests. Nothing
// is rendered, so it only suits pages whose content is in the initial HTML.
type HTTPLauncher struct {
	Timeout time.Duration
	// Transport overrides the round tripper; tests use it to reach httptest servers.
	Transport http.RoundTripper
}

// Launch builds an HTTP client presenting id's user agent, headers and proxy.
func (l *HTTPLauncher) Launch(_ context.Context, id antiblock.Identity) (Driver, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultOptions().PageLoadTimeout
	}

	transport := l.Transport
	if id.Proxy != "" {
		proxyURL, err := url.Parse(id.Proxy)
		if err != nil || proxyURL.Host == "" {
			proxyURL, err = url.Parse("http://" + id.Proxy)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy %q: %w", id.Proxy, err)
			}
		}
		base, ok := http.DefaultTransport.(*http.Transport)
		if !ok {
			return nil, fmt.Errorf("default transport is not *http.Transport")
		}
		t := base.Clone()
		t.Proxy = http.ProxyURL(proxyURL)
		transport = t
	}

	headers := make(http.Header, len(id.Headers)+1)
	for k, v := range id.Headers {
		headers.Set(k, v)
	}
	if id.UserAgent != "" {
		headers.Set("User-Agent", id.UserAgent)
	}

	return &httpDriver{
		client:  &http.Client{Timeout: timeout, Transport: transport},
		headers: headers,
	}, nil
}

type httpDriver struct {
	client  *http.Client
	headers http.Header
	page    string
	loaded  bool
}

func (d *httpDriver) Navigate(ctx context.Context, pageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return &FetchError{URL: pageURL, Message: "failed to create request", Cause: err}
	}
	req.Header = d.headers.Clone()

	resp, err := d.client.Do(req)
	if err != nil {
		return &FetchError{URL: pageURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &FetchError{URL: pageURL, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &FetchError{
			URL:        pageURL,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return &FetchError{URL: pageURL, Message: fmt.Sprintf("unexpected content type %q", ct)}
	}

	d.page = string(body)
	d.loaded = true
	return nil
}

func (d *httpDriver) HTML(context.Context) (string, error) {
	if !d.loaded {
		return "", fmt.Errorf("no page loaded")
	}
	return d.page, nil
}

func (d *httpDriver) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
