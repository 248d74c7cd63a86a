// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package amadeus

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/maisjamil1/flight-inspirations/lib/clock"
	"github.com/maisjamil1/flight-inspirations/lib/netutil"
)

// tokenPath is the OAuth2 token endpoint, relative to the base URL.
const tokenPath = "/security/oauth2/token"

// tokenExpiryMargin is how long before the reported expiry a cached
// token stops being used.
const tokenExpiryMargin = 60 * time.Second

// tokenExchangeTimeout bounds one credentials exchange. The exchange is
// shared by every waiting caller and ignores their cancellation.
const tokenExchangeTimeout = 30 * time.Second

// tokenSource exchanges client credentials for access tokens and caches
// the current one.
type tokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	clock        clock.Clock
	logger       *slog.Logger

	refresh singleflight.Group

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenSource(baseURL, clientID, clientSecret string, httpClient *http.Client, clk clock.Clock, logger *slog.Logger) *tokenSource {
	return &tokenSource{
		tokenURL:     baseURL + tokenPath,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		clock:        clk,
		logger:       logger,
	}
}

// Token returns a valid access token, exchanging credentials for a new
// one if the cached token is missing or within tokenExpiryMargin of
// expiry. Concurrent callers share a single exchange; a caller whose
// ctx ends stops waiting without failing the others.
func (source *tokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := source.cached(); ok {
		return token, nil
	}

	results := source.refresh.DoChan("token", func() (any, error) {
		// Another caller may have refreshed while this one waited.
		if token, ok := source.cached(); ok {
			return token, nil
		}
		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tokenExchangeTimeout)
		defer cancel()
		token, expiresIn, err := source.exchange(exchangeCtx)
		if err != nil {
			return "", err
		}
		source.mu.Lock()
		source.token = token
		source.expiresAt = source.clock.Now().Add(expiresIn)
		source.mu.Unlock()
		source.logger.Debug("access token refreshed", "expires_in", expiresIn)
		return token, nil
	})

	select {
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}
		return result.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("amadeus: waiting for access token: %w", ctx.Err())
	}
}

// Invalidate drops the cached token if it is still rejected, so the
// next Token call refreshes. A token that has already been replaced by
// a concurrent refresh is left alone.
func (source *tokenSource) Invalidate(rejected string) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.token == rejected {
		source.token = ""
		source.expiresAt = time.Time{}
	}
}

func (source *tokenSource) cached() (string, bool) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.token != "" && source.clock.Now().Before(source.expiresAt.Add(-tokenExpiryMargin)) {
		return source.token, true
	}
	return "", false
}

// exchange performs the client-credentials grant.
func (source *tokenSource) exchange(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {source.clientID},
		"client_secret": {source.clientSecret},
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, source.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("amadeus: creating token request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/json")

	response, err := source.httpClient.Do(request)
	if err != nil {
		return "", 0, fmt.Errorf("amadeus: token request: %w", err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return "", 0, fmt.Errorf("amadeus: reading token response: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("amadeus: token exchange: %w", parseAPIError(response.StatusCode, body))
	}

	var result struct {
		TokenType   string `json:"token_type"`
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		State       string `json:"state"`
	}
	if err := decodeJSON(body, &result); err != nil {
		return "", 0, fmt.Errorf("amadeus: decoding token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", 0, fmt.Errorf("amadeus: token exchange returned empty token")
	}
	if result.State != "" && result.State != "approved" {
		return "", 0, fmt.Errorf("amadeus: token state is %q", result.State)
	}
	return result.AccessToken, time.Duration(result.ExpiresIn) * time.Second, nil
}
