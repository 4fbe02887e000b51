// Package fetch downloads image bytes for a prediction request. The
// fetch is one of the two points where a request blocks, so every call
// carries a timeout and a response size cap.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/visionhost/predict/errors"
)

// DefaultMaxBytes caps how much image data a single request may pull in.
const DefaultMaxBytes = 32 << 20

// Client fetches image bytes over HTTP(S).
type Client struct {
	http     *http.Client
	maxBytes int64
}

// NewClient creates a fetcher whose requests are bounded by timeout.
// A zero timeout leaves requests bounded only by the caller's context.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		maxBytes: DefaultMaxBytes,
	}
}

// Fetch downloads the contents of rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Network(fmt.Sprintf("parse url %q", rawURL), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Network(fmt.Sprintf("unsupported scheme %q", u.Scheme), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Network("build request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Network("fetch image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Network(fmt.Sprintf("fetch image: status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, errors.Network("read image body", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, errors.Network(fmt.Sprintf("image exceeds %d bytes", c.maxBytes), nil)
	}
	return data, nil
}
