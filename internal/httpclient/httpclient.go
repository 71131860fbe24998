// Copyright 2025 The agentcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpclient is the shared JSON-over-HTTP transport every provider
// adapter's generate call routes through. Retry policy lives one layer
// below, in internal/retry; this package's job is building the request,
// parsing provider rate-limit headers into a retry-informing delay, and
// surfacing non-2xx responses as errors the retry layer can act on.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/arkwright/agentcore/internal/retry"
)

// RateLimitInfo is the subset of a rate-limit response header set that
// matters for backoff: how long the caller is being told to wait.
type RateLimitInfo struct {
	RetryAfter time.Duration
}

// HeaderParser extracts RateLimitInfo from a provider's response headers.
// nil is a valid HeaderParser: ParseAnthropicHeaders, ParseOpenAIHeaders,
// and ParseGeminiHeaders are the three supplied implementations.
type HeaderParser func(http.Header) RateLimitInfo

// StatusError is returned when a provider responds with a non-2xx status.
// It implements retry.Retryable so 4xx client errors (other than 429) stop
// the retry loop immediately instead of burning through all attempts.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Retryable() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode >= 500
}

// Client performs retrying JSON POST requests against a single API.
type Client struct {
	HTTP         *http.Client
	RetryConfig  retry.Config
	HeaderParser HeaderParser
	OnRetry      retry.OnRetryFunc
}

// New builds a Client with the given base HTTP client and retry policy.
func New(httpClient *http.Client, retryCfg retry.Config, parser HeaderParser) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{HTTP: httpClient, RetryConfig: retryCfg, HeaderParser: parser}
}

// PostJSON marshals body, POSTs it to url with the given headers, and
// unmarshals a successful response into out. body is marshalled once; each
// attempt (building the request, sending it, reading the response) is
// retried per c.RetryConfig.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("httpclient: marshal request body: %w", err)
	}

	rawBody, err := retry.Do(ctx, c.RetryConfig, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("httpclient: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, fmt.Errorf("httpclient: do request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("httpclient: read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
			if c.HeaderParser != nil {
				if info := c.HeaderParser(resp.Header); info.RetryAfter > 0 {
					select {
					case <-ctx.Done():
						return nil, ctx.Err()
					case <-time.After(info.RetryAfter):
					}
				}
			}
			return nil, statusErr
		}

		return respBody, nil
	}, c.OnRetry)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(rawBody, out); err != nil {
			return fmt.Errorf("httpclient: decode response body: %w", err)
		}
	}
	return nil
}

// ParseAnthropicHeaders extracts Retry-After from Anthropic rate-limit
// response headers.
func ParseAnthropicHeaders(h http.Header) RateLimitInfo {
	return parseRetryAfter(h, "retry-after")
}

// ParseOpenAIHeaders extracts Retry-After from OpenAI rate-limit response
// headers.
func ParseOpenAIHeaders(h http.Header) RateLimitInfo {
	return parseRetryAfter(h, "Retry-After")
}

// ParseGeminiHeaders extracts Retry-After from Gemini rate-limit response
// headers.
func ParseGeminiHeaders(h http.Header) RateLimitInfo {
	return parseRetryAfter(h, "Retry-After")
}

func parseRetryAfter(h http.Header, key string) RateLimitInfo {
	var info RateLimitInfo
	if v := h.Get(key); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			info.RetryAfter = time.Duration(seconds) * time.Second
		}
	}
	return info
}
