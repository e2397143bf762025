// SPDX-License-Identifier: MIT

// Package source retrieves the upstream M3U document over HTTP.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a fetch when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Fetcher retrieves the raw playlist text. It either returns the full
// document or an error; callers never see partial content.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// StatusError reports a non-success HTTP response from the source.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("source returned HTTP %d", e.Code)
}

// Client fetches a playlist from a fixed URL with a bounded timeout.
type Client struct {
	url  string
	http *http.Client
}

// New builds a Client for the given URL. A non-positive timeout falls back
// to DefaultTimeout.
func New(rawURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:  rawURL,
		http: &http.Client{Timeout: timeout},
	}
}

// Validate checks that the configured URL is a usable http(s) address.
func (c *Client) Validate() error {
	u, err := url.Parse(c.url)
	if err != nil {
		return fmt.Errorf("invalid source URL %q: %w", c.url, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported source URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("source URL %q is missing host", c.url)
	}
	return nil
}

// Fetch retrieves the playlist document.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch playlist: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &StatusError{Code: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read playlist body: %w", err)
	}
	return string(body), nil
}
