// Package http provides the fluent HTTP client behind every Tavolo API
// call. Requests addressed by path alone are resolved against the
// configured API base URL:
//
//	resp, err := http.Post("/users/login").
//	    Body(credentials).
//	    Send()
//
//	var out LoginResponse
//	err = resp.JSON(&out)
//
// Absolute URLs are passed through untouched. Tests intercept traffic by
// swapping DefaultClient.Transport (see pkg/testkit).
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	gohttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tavolo/tavolo/config"
	"github.com/tavolo/tavolo/pkg/logger"
)

// defaultTransport is the connection-pooled transport used outside tests.
var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        50,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared client for all outgoing requests. Tests swap
// DefaultClient.Transport to intercept calls:
//
//	http.DefaultClient.Transport = mock
//	defer http.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// ─── Request ──────────────────────────────────────────────────────────────────

// Request is a fluent HTTP request builder.
type Request struct {
	method    string
	url       string
	headers   map[string]string
	query     url.Values
	body      interface{}
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(gohttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(gohttp.MethodPost, url) }

// Put starts a PUT request.
func Put(url string) *Request { return newRequest(gohttp.MethodPut, url) }

// Delete starts a DELETE request.
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

func newRequest(method, target string) *Request {
	if strings.HasPrefix(target, "/") {
		target = config.APIBaseURL() + target
	}
	return &Request{
		method:    method,
		url:       target,
		headers:   map[string]string{"Accept": "application/json"},
		query:     url.Values{},
		timeout:   config.HTTPTimeout(),
		retries:   1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
	}
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets the Authorization: Bearer <token> header.
func (r *Request) Bearer(token string) *Request {
	return r.Header("Authorization", "Bearer "+token)
}

// Query adds a URL query parameter.
func (r *Request) Query(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

// Body sets the request body. v is marshalled to JSON; pass a string or
// []byte to send a raw body.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout overrides the per-attempt timeout (default HTTP_TIMEOUT).
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry configures automatic retries. n is total attempts (1 = no retry);
// wait is the initial backoff and doubles each attempt.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.retries = n
	r.retryWait = wait
	return r
}

// WithContext sets a custom context, typically tied to the view that
// issued the request so teardown cancels it in flight.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// ─── Send ─────────────────────────────────────────────────────────────────────

// Send executes the request and returns a Response.
func (r *Request) Send() (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do()
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if r.ctx.Err() != nil {
			break // view torn down, stop retrying
		}
		if attempt < r.retries {
			backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
			logger.Warn("http: request failed, retrying",
				"url", r.url, "attempt", attempt, "backoff", backoff, "error", err)
			time.Sleep(backoff)
		}
	}

	return nil, fmt.Errorf("http: %s %s failed after %d attempt(s): %w", r.method, r.url, r.retries, lastErr)
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	target := r.url
	if len(r.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.query.Encode()
	}

	req, err := gohttp.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// ─── Response ─────────────────────────────────────────────────────────────────

// Response wraps the HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}
