package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultUserAgent    = "recet/1.0 (+https://github.com/horvbalint/recet)"
	// MaxPageBytes caps the amount of page body read.
	MaxPageBytes = 5 << 20
)

// ErrPageTooLarge is returned when a page exceeds MaxPageBytes.
var ErrPageTooLarge = errors.New("page exceeds size limit")

// PageFetcher retrieves web pages over HTTP(S)
type PageFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewPageFetcher creates a PageFetcher. A nil client gets a 30s timeout.
func NewPageFetcher(client *http.Client) *PageFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &PageFetcher{client: client, maxBytes: MaxPageBytes}
}

// FetchText returns the body of the page at rawURL as text.
func (f *PageFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url has no host")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", ErrPageTooLarge
	}

	return string(body), nil
}
