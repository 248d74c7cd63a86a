// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package amadeus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maisjamil1/flight-inspirations/lib/clock"
)

const destinationsBody = `{
  "data": [
    {
      "type": "flight-destination",
      "origin": "MAD",
      "destination": "LIS",
      "departureDate": "2024-05-01",
      "returnDate": "2024-05-08",
      "price": {"total": "50.10"},
      "links": {
        "flightDates": "https://test.api.amadeus.com/v1/shopping/flight-dates?origin=MAD&destination=LIS",
        "flightOffers": "https://test.api.amadeus.com/v2/shopping/flight-offers?originLocationCode=MAD"
      }
    },
    {
      "type": "flight-destination",
      "origin": "MAD",
      "destination": "BCN",
      "departureDate": "2024-06-01",
      "returnDate": "2024-06-05",
      "price": {"total": "30.00"}
    }
  ],
  "dictionaries": {
    "currencies": {"EUR": "EURO"},
    "locations": {"LIS": {"subType": "AIRPORT", "detailedName": "AIRPORT"}}
  },
  "meta": {"currency": "EUR"}
}`

// fakeAmadeus is an httptest TLS server implementing the token and
// flight-destinations endpoints.
type fakeAmadeus struct {
	server *httptest.Server

	tokenRequests       atomic.Int32
	destinationRequests atomic.Int32

	mu sync.Mutex
	// tokens issued so far; the latest is the only one accepted.
	issued []string
	// expiresIn is the lifetime reported for new tokens.
	expiresIn int
	// destinationStatus, when non-zero, is returned for the next
	// destinationFailures requests instead of data.
	destinationStatus   int
	destinationFailures int
	retryAfter          string
	lastQuery           string

	// tokenStarted and tokenRelease, when set, hold every token
	// response until tokenRelease is closed.
	tokenStarted chan struct{}
	tokenRelease chan struct{}
}

func newFakeAmadeus(t *testing.T) *fakeAmadeus {
	t.Helper()
	fake := &fakeAmadeus{expiresIn: 1799}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/security/oauth2/token", fake.handleToken)
	mux.HandleFunc("GET /v1/shopping/flight-destinations", fake.handleDestinations)
	fake.server = httptest.NewTLSServer(mux)
	t.Cleanup(fake.server.Close)
	return fake
}

func (fake *fakeAmadeus) handleToken(writer http.ResponseWriter, request *http.Request) {
	fake.tokenRequests.Add(1)
	fake.mu.Lock()
	started, release := fake.tokenStarted, fake.tokenRelease
	fake.mu.Unlock()
	if release != nil {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	}
	if err := request.ParseForm(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Form.Get("grant_type") != "client_credentials" ||
		request.Form.Get("client_id") != "test-id" ||
		request.Form.Get("client_secret") != "test-secret" {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(writer, `{"error":"invalid_client","error_description":"Client credentials are invalid","code":38187,"title":"Invalid parameters"}`)
		return
	}

	fake.mu.Lock()
	token := fmt.Sprintf("token-%d", len(fake.issued)+1)
	fake.issued = append(fake.issued, token)
	expiresIn := fake.expiresIn
	fake.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(writer, `{"type":"amadeusOAuth2Token","token_type":"Bearer","access_token":%q,"expires_in":%d,"state":"approved"}`, token, expiresIn)
}

func (fake *fakeAmadeus) handleDestinations(writer http.ResponseWriter, request *http.Request) {
	fake.destinationRequests.Add(1)

	fake.mu.Lock()
	current := ""
	if len(fake.issued) > 0 {
		current = fake.issued[len(fake.issued)-1]
	}
	status := 0
	if fake.destinationFailures > 0 {
		fake.destinationFailures--
		status = fake.destinationStatus
	}
	retryAfter := fake.retryAfter
	fake.lastQuery = request.URL.RawQuery
	fake.mu.Unlock()

	writer.Header().Set("Content-Type", "application/vnd.amadeus+json")
	if request.Header.Get("Authorization") != "Bearer "+current || status == http.StatusUnauthorized {
		writer.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(writer, `{"errors":[{"status":401,"code":38192,"title":"Invalid access token","detail":"The access token provided in the Authorization header is invalid"}]}`)
		return
	}
	if status != 0 {
		if retryAfter != "" {
			writer.Header().Set("Retry-After", retryAfter)
		}
		writer.WriteHeader(status)
		fmt.Fprintf(writer, `{"errors":[{"status":%d,"code":38194,"title":"Too many requests"}]}`, status)
		return
	}
	if request.URL.Query().Get("origin") == "" {
		writer.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(writer, `{"errors":[{"status":400,"code":32171,"title":"MANDATORY DATA MISSING","detail":"Missing origin","source":{"parameter":"origin"}}]}`)
		return
	}
	fmt.Fprint(writer, destinationsBody)
}

func (fake *fakeAmadeus) query() string {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.lastQuery
}

func (fake *fakeAmadeus) failNext(status, count int, retryAfter string) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.destinationStatus = status
	fake.destinationFailures = count
	fake.retryAfter = retryAfter
}

// holdTokens makes token responses wait until the returned release
// function runs. The returned channel receives when a token request
// arrives.
func (fake *fakeAmadeus) holdTokens(t *testing.T) (<-chan struct{}, func()) {
	t.Helper()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	fake.mu.Lock()
	fake.tokenStarted = started
	fake.tokenRelease = release
	fake.mu.Unlock()
	var once sync.Once
	releaseFunc := func() { once.Do(func() { close(release) }) }
	t.Cleanup(releaseFunc)
	return started, releaseFunc
}

func newTestClient(t *testing.T, fake *fakeAmadeus, clk clock.Clock) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:      fake.server.URL + "/v1",
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		HTTPClient:   fake.server.Client(),
		Clock:        clk,
		Logger:       slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "http://test.api.amadeus.com/v1", ClientID: "a", ClientSecret: "b"}); err == nil {
		t.Error("NewClient accepted a plain HTTP base URL")
	}
	if _, err := NewClient(Config{ClientID: "a"}); err == nil {
		t.Error("NewClient accepted a missing secret")
	}
	client, err := NewClient(Config{ClientID: "a", ClientSecret: "b"})
	if err != nil {
		t.Fatalf("NewClient with defaults: %v", err)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
}

func TestFlightDestinations(t *testing.T) {
	fake := newFakeAmadeus(t)
	client := newTestClient(t, fake, clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	destinations, err := client.FlightDestinations(context.Background(), FlightDestinationsQuery{
		Origin:        "mad",
		DepartureDate: "2024-05-01",
	})
	if err != nil {
		t.Fatalf("FlightDestinations: %v", err)
	}
	if len(destinations) != 2 {
		t.Fatalf("got %d destinations, want 2", len(destinations))
	}
	first := destinations[0]
	if first.Origin != "MAD" || first.Destination != "LIS" || first.Price.Total != "50.10" {
		t.Errorf("first destination = %+v", first)
	}
	if first.ReturnDate != "2024-05-08" || first.Links.FlightDates == "" {
		t.Errorf("first destination dates/links = %+v", first)
	}
	if got := fake.query(); got != "departureDate=2024-05-01&origin=MAD" {
		t.Errorf("query = %q, want upper-cased origin and date", got)
	}
}

func TestFlightDestinationsDocument(t *testing.T) {
	fake := newFakeAmadeus(t)
	client := newTestClient(t, fake, clock.Fake(time.Now()))

	document, err := client.FlightDestinationsDocument(context.Background(), FlightDestinationsQuery{Origin: "MAD", OneWay: true, MaxPrice: 200})
	if err != nil {
		t.Fatalf("FlightDestinationsDocument: %v", err)
	}
	if document.Meta.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", document.Meta.Currency)
	}
	if document.Dictionaries.Currencies["EUR"] != "EURO" {
		t.Errorf("currencies = %v", document.Dictionaries.Currencies)
	}
	if got := fake.query(); got != "maxPrice=200&oneWay=true&origin=MAD" {
		t.Errorf("query = %q", got)
	}
}

func TestFlightDestinationsRequiresOrigin(t *testing.T) {
	fake := newFakeAmadeus(t)
	client := newTestClient(t, fake, clock.Fake(time.Now()))
	if _, err := client.FlightDestinations(context.Background(), FlightDestinationsQuery{Origin: "  "}); err == nil {
		t.Fatal("expected error for empty origin")
	}
	if fake.tokenRequests.Load() != 0 {
		t.Error("empty origin still fetched a token")
	}
}

func TestTokenCachedUntilMargin(t *testing.T) {
	fake := newFakeAmadeus(t)
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	client := newTestClient(t, fake, fakeClock)
	ctx := context.Background()
	query := FlightDestinationsQuery{Origin: "MAD"}

	for range 3 {
		if _, err := client.FlightDestinations(ctx, query); err != nil {
			t.Fatalf("FlightDestinations: %v", err)
		}
	}
	if got := fake.tokenRequests.Load(); got != 1 {
		t.Fatalf("token requests = %d, want 1", got)
	}

	// 1799s lifetime minus 60s margin: still valid at +1738s.
	fakeClock.Advance(1738 * time.Second)
	if _, err := client.FlightDestinations(ctx, query); err != nil {
		t.Fatalf("FlightDestinations: %v", err)
	}
	if got := fake.tokenRequests.Load(); got != 1 {
		t.Errorf("token requests before margin = %d, want 1", got)
	}

	// Inside the margin: refreshed.
	fakeClock.Advance(2 * time.Second)
	if _, err := client.FlightDestinations(ctx, query); err != nil {
		t.Fatalf("FlightDestinations: %v", err)
	}
	if got := fake.tokenRequests.Load(); got != 2 {
		t.Errorf("token requests after margin = %d, want 2", got)
	}
}

func TestConcurrentCallersShareRefresh(t *testing.T) {
	fake := newFakeAmadeus(t)
	client := newTestClient(t, fake, clock.Fake(time.Now()))

	const callers = 8
	var waitGroup sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			if _, err := client.FlightDestinations(context.Background(), FlightDestinationsQuery{Origin: "MAD"}); err != nil {
				errs <- err
			}
		}()
	}
	waitGroup.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	// Callers that arrive after the shared refresh finishes hit the
	// cache, so one exchange covers all of them.
	if got := fake.tokenRequests.Load(); got != 1 {
		t.Errorf("token requests = %d, want 1", got)
	}
	if got := fake.destinationRequests.Load(); got != callers {
		t.Errorf("destination requests = %d, want %d", got, callers)
	}
}

func TestCancelledCallerDoesNotAbortSharedRefresh(t *testing.T) {
	fake := newFakeAmadeus(t)
	started, release := fake.holdTokens(t)
	client := newTestClient(t, fake, clock.Fake(time.Now()))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.tokens.Token(firstCtx)
		firstErr <- err
	}()
	<-started

	type tokenResult struct {
		token string
		err   error
	}
	second := make(chan tokenResult, 1)
	go func() {
		token, err := client.tokens.Token(context.Background())
		second <- tokenResult{token, err}
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller err = %v, want context.Canceled", err)
	}

	release()
	result := <-second
	if result.err != nil {
		t.Fatalf("second caller: %v", result.err)
	}
	if result.token != "token-1" {
		t.Errorf("token = %q, want token-1", result.token)
	}
	if got := fake.tokenRequests.Load(); got != 1 {
		t.Errorf("token requests = %d, want 1", got)
	}
	if token, ok := client.tokens.cached(); !ok || token != "token-1" {
		t.Errorf("cached token = %q (%v), want token-1", token, ok)
	}
}

func TestUnauthorizedRetriesOnceWithFreshToken(t *testing.T) {
	fake := newFakeAmadeus(t)
	client := newTestClient(t, fake, clock.Fake(time.Now()))
	ctx := context.Background()

	if _, err := client.FlightDestinations(ctx, FlightDestinationsQuery{Origin: "MAD"}); err != nil {
		t.Fatalf("warm-up: %v", err)
	}

	// The server revokes the cached token once.
	fake.failNext(http.StatusUnauthorized, 1, "")
	if _, err := client.FlightDestinations(ctx, FlightDestinationsQuery{Origin: "MAD"}); err != nil {
		t.Fatalf("FlightDestinations after revocation: %v", err)
	}
	if got := fake.tokenRequests.Load(); got != 2 {
		t.Errorf("token requests = %d, want 2", got)
	}
}

func TestUnauthorizedTwiceFails(t *testing.T) {
	fake := newFakeAmadeus(t)
	client := newTestClient(t, fake, clock.Fake(time.Now()))

	fake.failNext(http.StatusUnauthorized, 2, "")
	_, err := client.FlightDestinations(context.Background(), FlightDestinationsQuery{Origin: "MAD"})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if got := fake.destinationRequests.Load(); got != 2 {
		t.Errorf("destination requests = %d, want 2 (one retry)", got)
	}
}

func TestBadCredentials(t *testing.T) {
	fake := newFakeAmadeus(t)
	client, err := NewClient(Config{
		BaseURL:      fake.server.URL + "/v1",
		ClientID:     "test-id",
		ClientSecret: "wrong",
		HTTPClient:   fake.server.Client(),
		Clock:        clock.Fake(time.Now()),
		Logger:       slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.FlightDestinations(context.Background(), FlightDestinationsQuery{Origin: "MAD"})
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	var apiError *APIError
	if !errors.As(err, &apiError) || len(apiError.Details) != 1 || apiError.Details[0].Detail != "Client credentials are invalid" {
		t.Errorf("token error details = %+v", apiError)
	}
	if fake.destinationRequests.Load() != 0 {
		t.Error("search was attempted without a token")
	}
}

func TestRateLimitedRetriesAfterDelay(t *testing.T) {
	fake := newFakeAmadeus(t)
	fakeClock := clock.Fake(time.Now())
	client := newTestClient(t, fake, fakeClock)

	fake.failNext(http.StatusTooManyRequests, 1, "2")
	done := make(chan error, 1)
	go func() {
		_, err := client.FlightDestinations(context.Background(), FlightDestinationsQuery{Origin: "MAD"})
		done <- err
	}()

	waitForPending(t, fakeClock)
	fakeClock.Advance(time.Second)
	select {
	case err := <-done:
		t.Fatalf("request finished before Retry-After elapsed: %v", err)
	default:
	}
	fakeClock.Advance(time.Second)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("FlightDestinations: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete after Retry-After")
	}
	if got := fake.destinationRequests.Load(); got != 2 {
		t.Errorf("destination requests = %d, want 2", got)
	}
}

func TestRateLimitedTwiceFails(t *testing.T) {
	fake := newFakeAmadeus(t)
	fakeClock := clock.Fake(time.Now())
	client := newTestClient(t, fake, fakeClock)

	fake.failNext(http.StatusTooManyRequests, 2, "")
	done := make(chan error, 1)
	go func() {
		_, err := client.FlightDestinations(context.Background(), FlightDestinationsQuery{Origin: "MAD"})
		done <- err
	}()
	waitForPending(t, fakeClock)
	fakeClock.Advance(time.Second)

	select {
	case err := <-done:
		if !IsRateLimited(err) {
			t.Fatalf("err = %v, want rate limited", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete")
	}
}

func TestRateLimitWaitHonorsContext(t *testing.T) {
	fake := newFakeAmadeus(t)
	fakeClock := clock.Fake(time.Now())
	client := newTestClient(t, fake, fakeClock)

	fake.failNext(http.StatusTooManyRequests, 1, "5")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.FlightDestinations(ctx, FlightDestinationsQuery{Origin: "MAD"})
		done <- err
	}()
	waitForPending(t, fakeClock)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled request did not return")
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", time.Second},
		{"garbage", time.Second},
		{"0", time.Second},
		{"3", 3 * time.Second},
		{"3600", MaxRetryAfter},
	}
	for _, test := range tests {
		header := http.Header{}
		if test.header != "" {
			header.Set("Retry-After", test.header)
		}
		if got := retryAfter(header); got != test.want {
			t.Errorf("retryAfter(%q) = %s, want %s", test.header, got, test.want)
		}
	}
}

// waitForPending blocks until a goroutine has registered a timer on
// the fake clock.
func waitForPending(t *testing.T, fakeClock *clock.FakeClock) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for fakeClock.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no timer registered on the fake clock")
		}
		time.Sleep(time.Millisecond)
	}
}
