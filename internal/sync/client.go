// StreamAtlas - Streaming Catalog Analytics and Composition Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamatlas

/*
client.go - Retrying Upstream HTTP Client

Shared GET/decode layer for both upstream APIs.

Resilience mechanisms:
  - Fixed-delay retries: a request is attempted up to maxAttempts times
    with a constant wait between attempts; any transport error or non-2xx
    status counts as a failed attempt
  - HTTP 429 honors the Retry-After header (seconds) over the fixed delay
  - Client-side rate limiting via golang.org/x/time/rate, applied before
    every attempt including retries
  - All waits are context-cancellable; cancellation surfaces as ctx.Err(),
    never as a TransientError

On retry exhaustion the caller gets a *TransientError classified as
rate_limited (last status 429) or unreachable (anything else), so the
orchestrator can decide between aborting the run and recording a title
as missing.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// maxErrorBodySize limits how much of a failed response body is read for
// error reporting.
const maxErrorBodySize = 64 * 1024 // 64KB

// Client is a retrying, rate-limited HTTP GET client shared by the two
// upstream API clients. Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	retryDelay  time.Duration
}

// NewClient builds a retrying client. maxAttempts is the total attempt
// count (not a retry count); rps/burst configure the client-side limiter.
func NewClient(timeout time.Duration, maxAttempts int, retryDelay time.Duration, rps float64, burst int) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// GetJSON performs a GET against reqURL and decodes the 2xx response body
// into result. Failed attempts are retried with a fixed delay until the
// attempt budget runs out.
func (c *Client) GetJSON(ctx context.Context, reqURL string, result interface{}) error {
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", reqURL, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	lastKind := KindUnreachable

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retryDelay, err := c.attempt(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		if retryDelay > 0 {
			lastKind = KindRateLimited
		} else {
			lastKind = KindUnreachable
			retryDelay = c.retryDelay
		}

		if attempt == c.maxAttempts {
			break
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, &TransientError{Kind: lastKind, URL: reqURL, Err: lastErr}
}

// attempt performs one GET. On HTTP 429 the returned delay is positive:
// the Retry-After value when present, the fixed delay otherwise.
func (c *Client) attempt(ctx context.Context, reqURL string) (body []byte, retryDelay time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, 0, nil
	}

	errBody := readBodyForError(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		delay := c.retryDelay
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if parsed, parseErr := time.ParseDuration(retryAfter + "s"); parseErr == nil {
				delay = parsed
			}
		}
		return nil, delay, fmt.Errorf("HTTP 429: %s", errBody)
	}
	return nil, 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, errBody)
}

// readBodyForError reads up to maxErrorBodySize of a failed response body
// for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
