// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package amadeus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maisjamil1/flight-inspirations/lib/clock"
	"github.com/maisjamil1/flight-inspirations/lib/netutil"
)

// DefaultBaseURL is the Amadeus test environment API root.
const DefaultBaseURL = "https://test.api.amadeus.com/v1"

// DefaultTimeout bounds each HTTP request when Config.HTTPClient is nil.
const DefaultTimeout = 15 * time.Second

// MaxRetryAfter caps how long a rate-limited request waits before its
// single retry.
const MaxRetryAfter = 10 * time.Second

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root including the version segment, for
	// example "https://api.amadeus.com/v1". Defaults to DefaultBaseURL.
	// Must use HTTPS.
	BaseURL string

	// ClientID and ClientSecret are the application's API key and
	// secret. Both are required.
	ClientID     string
	ClientSecret string

	// HTTPClient is used for all requests. Defaults to a client with
	// DefaultTimeout.
	HTTPClient *http.Client

	// Clock provides time for token expiry and retry backoff. Defaults
	// to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is an authenticated Amadeus API client. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenSource
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient validates config and returns a Client. No request is made
// until the first API call.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("amadeus: API client requires HTTPS (got %q)", baseURL)
	}
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("amadeus: ClientID and ClientSecret are required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     newTokenSource(baseURL, config.ClientID, config.ClientSecret, httpClient, clk, logger),
		clock:      clk,
		logger:     logger,
	}, nil
}

// get performs an authenticated GET of path with query and returns the
// response body of a 2xx response.
func (client *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return client.getWithRetry(ctx, path, query, false, false)
}

// getWithRetry is get with flags recording which single retries have
// already been spent.
func (client *Client) getWithRetry(ctx context.Context, path string, query url.Values, retriedAuth, retriedRate bool) ([]byte, error) {
	requestURL := client.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	token, err := client.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("amadeus: creating request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)
	request.Header.Set("Accept", "application/vnd.amadeus+json, application/json")

	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("amadeus: GET %s: %w", path, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("amadeus: reading response body: %w", err)
	}

	client.logger.Debug("amadeus request",
		"path", path,
		"status", response.StatusCode,
		"bytes", len(body),
		"elapsed", client.clock.Now().Sub(started),
	)

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return body, nil
	}

	switch {
	case response.StatusCode == http.StatusUnauthorized && !retriedAuth:
		client.logger.Info("access token rejected, refreshing", "path", path)
		client.tokens.Invalidate(token)
		return client.getWithRetry(ctx, path, query, true, retriedRate)

	case response.StatusCode == http.StatusTooManyRequests && !retriedRate:
		delay := retryAfter(response.Header)
		client.logger.Info("rate limited, backing off",
			"duration", delay,
			"path", path,
		)
		select {
		case <-client.clock.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return client.getWithRetry(ctx, path, query, retriedAuth, true)
	}

	return nil, parseAPIError(response.StatusCode, body)
}

// retryAfter reads the Retry-After header as whole seconds. A missing
// or malformed value means one second; large values are capped at
// MaxRetryAfter.
func retryAfter(header http.Header) time.Duration {
	seconds, err := strconv.Atoi(header.Get("Retry-After"))
	if err != nil || seconds < 1 {
		return time.Second
	}
	return min(time.Duration(seconds)*time.Second, MaxRetryAfter)
}
