// Package httpx builds HTTP clients tuned for the Tooloo backend's streaming
// endpoints.
package httpx

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// NewDefaultClient returns an HTTP client suitable for long-lived
// event-stream requests. Compression is disabled because SSE through
// gzip-aware proxies can stall chunk delivery, and there is no global
// timeout: lifetimes are managed by per-request contexts. A CookieJar is
// attached so the backend can pin a session cookie across the auxiliary REST
// calls and the stream.
func NewDefaultClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Timeout: 0,
		Transport: &http.Transport{
			DisableCompression: true,
		},
		Jar: jar,
	}
}

// NewRESTClient returns a client for the short auxiliary calls (status,
// provider list, health snapshots) with an ordinary request timeout.
func NewRESTClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// WarmUp performs a lightweight GET on baseURL so the server can issue
// cookies before the first long-lived POST. Failures are ignored; this is
// best-effort session priming.
func WarmUp(ctx context.Context, client *http.Client, baseURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return
	}
	resp, err := client.Do(req)
	if err == nil && resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
