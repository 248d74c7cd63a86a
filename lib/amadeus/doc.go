// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package amadeus is a client for the Amadeus Self-Service travel API,
// limited to the Flight Inspiration Search endpoint.
//
// Authentication uses the OAuth2 client-credentials grant. The access
// token is cached process-wide and reused until 60 seconds before the
// expiry the server reports. Concurrent callers that find no valid
// token share one refresh request (golang.org/x/sync/singleflight), so
// a burst of searches at startup costs one token exchange.
//
// A request that comes back 401 invalidates the cached token and is
// retried once with a fresh one. A 429 is retried once after the
// Retry-After delay, capped at [MaxRetryAfter]. Every other non-2xx
// response is returned as an [*APIError]; use [IsUnauthorized],
// [IsRateLimited], and [IsNotFound] to classify it.
//
// Usage:
//
//	client, err := amadeus.NewClient(amadeus.Config{
//	    ClientID:     id,
//	    ClientSecret: secret,
//	    Logger:       logger,
//	})
//	destinations, err := client.FlightDestinations(ctx, amadeus.FlightDestinationsQuery{
//	    Origin: "MAD",
//	})
//
// The client requires HTTPS. Tests point BaseURL at an
// httptest.NewTLSServer and pass its Client as HTTPClient.
package amadeus
