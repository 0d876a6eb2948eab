// Package fetcher retrieves source document bytes over HTTP. Fetching is a
// single blocking call made before any parsing; the splitting core itself
// never performs I/O.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client fetches documents with a size cap so a misbehaving origin cannot
// exhaust memory.
type Client struct {
	hc       *http.Client
	maxBytes int64
}

// New builds a Client. maxBytes <= 0 means no cap.
func New(timeout time.Duration, maxBytes int64) *Client {
	return &Client{
		hc:       &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the document at rawURL and returns its bytes.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body of %q: %w", rawURL, err)
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("document at %q exceeds %d bytes", rawURL, c.maxBytes)
	}
	return data, nil
}
