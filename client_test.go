package paystream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// newTestClient points a client at a test server.
func newTestClient(serverURL string) *Client {
	c := New("sk_test_key")
	c.BaseURL = serverURL
	return c
}

func TestNew(t *testing.T) {
	client := New("sk_test_key")

	if client.APIKey != "sk_test_key" {
		t.Errorf("Expected APIKey sk_test_key, got %s", client.APIKey)
	}
	if client.BaseURL != DefaultBaseURL {
		t.Errorf("Expected BaseURL %s, got %s", DefaultBaseURL, client.BaseURL)
	}
	if client.httpClient == nil {
		t.Fatal("Expected HTTP client to be initialized")
	}
	if client.httpClient.Timeout != requestTimeout {
		t.Errorf("Expected request timeout %s, got %s", requestTimeout, client.httpClient.Timeout)
	}
}

func TestExecuteEmptyKeyMakesNoRequest(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.APIKey = ""

	_, _, _, err := client.execute(context.Background(), http.MethodGet, server.URL+"/charges", nil)
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError, got %T", err)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("Expected no requests to reach the server, got %d", n)
	}
}

func TestExecuteGetEncodesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if got := r.URL.RawQuery; got != "count=3&customer=cus_1" {
			t.Errorf("Expected query count=3&customer=cus_1, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("Expected empty body on GET, got %q", body)
		}
		_, _ = w.Write([]byte(`{"object":"list","count":0,"data":[],"url":"/v1/charges"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.call(context.Background(), http.MethodGet, "/charges", Params{"count": 3, "customer": "cus_1"}, nil)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
}

func TestExecutePostSendsFormBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Expected form content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		want := "amount=2000&card%5Bnumber%5D=4242424242424242&currency=usd"
		if string(body) != want {
			t.Errorf("Expected body %q, got %q", want, body)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query string on POST, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id":"ch_1","object":"charge"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	params := Params{
		"amount":   2000,
		"currency": "usd",
		"card":     Params{"number": "4242424242424242"},
	}
	err := client.call(context.Background(), http.MethodPost, "/charges", params, nil)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
}

func TestExecuteDeleteSendsNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Errorf("Expected empty body on DELETE, got %q", body)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query string on DELETE, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"id":"cus_1","object":"customer","deleted":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	// params are ignored on DELETE even when supplied
	err := client.call(context.Background(), http.MethodDelete, "/customers/cus_1", Params{"stray": "value"}, nil)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
}

func TestExecuteUnsupportedMethod(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, _, _, err := client.execute(context.Background(), http.MethodPatch, server.URL+"/charges", nil)

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Expected ConnectionError, got %T", err)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("Expected no requests to reach the server, got %d", n)
	}
}

func TestExecuteHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_key" {
			t.Errorf("Expected Bearer credential, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "Paystream/v1 GoBindings/"+Version {
			t.Errorf("Unexpected User-Agent %q", got)
		}
		diag := r.Header.Get("X-Paystream-Client-User-Agent")
		var info map[string]string
		if err := json.Unmarshal([]byte(diag), &info); err != nil {
			t.Errorf("Diagnostic header is not valid JSON: %v", err)
		}
		if info["lang"] != "go" {
			t.Errorf("Expected diagnostic lang go, got %q", info["lang"])
		}
		if info["bindings_version"] != Version {
			t.Errorf("Expected diagnostic version %s, got %q", Version, info["bindings_version"])
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.call(context.Background(), http.MethodGet, "/account", nil, nil)
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
}

func TestExecuteUserAgentOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "custom-agent/9" {
			t.Errorf("Expected custom User-Agent, got %q", got)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.UserAgent = "custom-agent/9"
	if err := client.call(context.Background(), http.MethodGet, "/account", nil, nil); err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
}

func TestExecuteIdempotencyKey(t *testing.T) {
	tests := []struct {
		name   string
		method string
		want   string
	}{
		{"sent on POST", http.MethodPost, "idem_123"},
		{"not sent on GET", http.MethodGet, ""},
		{"not sent on DELETE", http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Idempotency-Key"); got != tt.want {
					t.Errorf("Expected Idempotency-Key %q, got %q", tt.want, got)
				}
				_, _ = w.Write([]byte(`{}`))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			client.IdempotencyKey = "idem_123"
			if err := client.call(context.Background(), tt.method, "/charges", nil, nil); err != nil {
				t.Fatalf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestNewIdempotencyKey(t *testing.T) {
	a, b := NewIdempotencyKey(), NewIdempotencyKey()
	if a == "" || b == "" {
		t.Fatal("Expected non-empty keys")
	}
	if a == b {
		t.Error("Expected distinct keys")
	}
}

func TestExecuteConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := newTestClient(serverURL)
	err := client.call(context.Background(), http.MethodGet, "/charges", nil, nil)

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Expected ConnectionError, got %T", err)
	}
	if connErr.Unwrap() == nil {
		t.Error("Expected the underlying cause to be wrapped")
	}
}

// Exactly one request per operation, whatever the outcome: the client
// never retries.
func TestExecuteNeverRetries(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"success", http.StatusOK, `{"id":"ch_1","object":"charge"}`},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"type":"api_error","message":"busy"}}`},
		{"server error", http.StatusInternalServerError, `{"error":{"type":"api_error","message":"boom"}}`},
		{"bad gateway", http.StatusBadGateway, `<html>bad gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int64
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			var charge Charge
			_ = client.call(context.Background(), http.MethodGet, "/charges/ch_1", nil, &charge)

			if n := requests.Load(); n != 1 {
				t.Errorf("Expected exactly 1 request, got %d", n)
			}
		})
	}
}

func TestCallDecodesNormalizedRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/charges/ch_1" {
			t.Errorf("Expected path /charges/ch_1, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": "ch_1",
			"object": "charge",
			"amount": 2000,
			"amount_refunded": 500,
			"currency": "usd",
			"paid": true,
			"card": {"id": "card_1", "object": "card", "last4": "4242", "exp_month": 12, "exp_year": 2027}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	charge, err := client.Charges().Retrieve(context.Background(), "ch_1")
	if err != nil {
		t.Fatalf("Expected no error but got: %v", err)
	}
	if charge.AmountRefunded != 500 {
		t.Errorf("Expected AmountRefunded 500, got %d", charge.AmountRefunded)
	}
	if charge.Card == nil || charge.Card.ExpMonth != 12 {
		t.Error("Expected card fields to decode from snake_case wire names")
	}
}

func TestDistinctClientsCarryDistinctCredentials(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	first := newTestClient(server.URL)
	second := newTestClient(server.URL)
	second.APIKey = "sk_test_other"

	_ = first.call(context.Background(), http.MethodGet, "/account", nil, nil)
	_ = second.call(context.Background(), http.MethodGet, "/account", nil, nil)

	if len(seen) != 2 || seen[0] != "Bearer sk_test_key" || seen[1] != "Bearer sk_test_other" {
		t.Errorf("Expected each client to send its own key, got %v", seen)
	}
}
