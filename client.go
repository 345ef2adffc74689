package paystream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paystream/paystream-go/form"
)

// Version is the release version of the bindings, reported in the
// User-Agent of every request.
const Version = "1.2.0"

// DefaultBaseURL is the live API endpoint.
const DefaultBaseURL = "https://api.paystream.com/v1"

// Transport deadlines are fixed and deliberately not configurable on
// the Client: 30s to establish a connection, 80s for the whole request.
const (
	connectTimeout = 30 * time.Second
	requestTimeout = 80 * time.Second
)

// Client talks to the Paystream API on behalf of one account.
//
// Each Client carries its own credential, so a program acting for
// several accounts constructs one Client per key; distinct Clients
// never share or leak credentials. A Client is safe for concurrent
// use. The zero value is not usable; call New.
type Client struct {
	// APIKey is the secret key sent as the Bearer credential on every
	// request. Sourcing and rotating it is the caller's concern.
	APIKey string

	// BaseURL is the API endpoint, without a trailing slash.
	BaseURL string

	// UserAgent overrides the default User-Agent header when set.
	UserAgent string

	// IdempotencyKey, when set, is sent on POST requests so a retried
	// call replays the original outcome instead of repeating its side
	// effects. The client itself never retries.
	IdempotencyKey string

	httpClient *http.Client
}

// backend is the request surface resource operations depend on,
// kept narrow so tests can substitute a double for the HTTP pipeline.
type backend interface {
	call(ctx context.Context, method, path string, params Params, v any) error
}

// Compile-time interface implementation check
var _ backend = (*Client)(nil)

// New creates a Client for the live API with the given secret key.
func New(apiKey string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout}).DialContext

	return &Client{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
	}
}

// NewIdempotencyKey returns a fresh key suitable for
// Client.IdempotencyKey.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// call runs one API operation end to end: encode the parameters,
// execute the HTTP request, interpret the response, and decode the
// payload into v. A nil v skips decoding. Exactly one request is made
// per call; there are no retries.
func (c *Client) call(ctx context.Context, method, path string, params Params, v any) error {
	body, status, header, err := c.execute(ctx, method, c.BaseURL+path, form.Encode(params))
	if err != nil {
		return err
	}
	payload, err := interpretResponse(body, status, header)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return unmarshalPayload(payload, v)
}

// execute performs one HTTP request and returns the raw response body
// and status. Pairs travel as the query string on GET and as a form
// body on POST; DELETE sends neither. Any failure to produce a
// response surfaces as a typed error, never a panic.
func (c *Client) execute(ctx context.Context, method, url string, pairs []form.Pair) (string, int, http.Header, error) {
	if c.APIKey == "" {
		return "", 0, nil, &AuthenticationError{}
	}

	var bodyReader io.Reader
	contentType := ""
	switch method {
	case http.MethodGet:
		if len(pairs) > 0 {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + form.URLEncode(pairs)
		}
	case http.MethodPost:
		bodyReader = strings.NewReader(form.URLEncode(pairs))
		contentType = "application/x-www-form-urlencoded"
	case http.MethodDelete:
		// deletes are addressed by URL alone
	default:
		return "", 0, nil, &ConnectionError{Message: fmt.Sprintf("unsupported request method %s", method)}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return "", 0, nil, &ConnectionError{Message: "could not create request", Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("X-Paystream-Client-User-Agent", clientUserAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.IdempotencyKey != "" && method == http.MethodPost {
		req.Header.Set("Idempotency-Key", c.IdempotencyKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, nil, &ConnectionError{Message: fmt.Sprintf("could not connect to Paystream (%s)", url), Err: err}
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return "", 0, nil, &ConnectionError{Message: "could not read response", Err: err}
	}
	if debugEnabled(ctx) {
		slog.Debug("request complete", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))
	}

	return string(respBody), resp.StatusCode, resp.Header, nil
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

var defaultUserAgent = "Paystream/v1 GoBindings/" + Version

// clientUserAgent is the diagnostic header value describing the
// bindings and their runtime, sent with every request.
var clientUserAgent = func() string {
	info := map[string]string{
		"bindings_version": Version,
		"lang":             "go",
		"lang_version":     runtime.Version(),
		"publisher":        "paystream",
		"uname":            runtime.GOOS + " " + runtime.GOARCH,
	}
	b, _ := json.Marshal(info)
	return string(b)
}()
