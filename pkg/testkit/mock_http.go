// Package testkit holds the test doubles shared across Tavolo's test
// suites. MockTransport intercepts the shared HTTP client so service
// tests run against synthetic responses instead of the network:
//
//	mt := testkit.Install(t)
//	mt.Stub("POST", "/users/login", 200, `{"success":true,"user_id":"7","name":"Asha","role":"customer"}`)
//	// ... exercise the service ...
//	if mt.CallCount("POST", "/users/login") != 1 { t.Fatal(...) }
package testkit

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	tavolohttp "github.com/tavolo/tavolo/pkg/http"
)

// Call records one intercepted request.
type Call struct {
	Method string
	URL    string
	Body   []byte
}

type stub struct {
	method string
	match  string // URL substring
	status int
	body   string
	delay  time.Duration
	err    error
}

// MockTransport implements http.RoundTripper over a list of stubs.
// Unstubbed requests get a 404 so a missing stub fails loudly in
// assertions rather than hanging a test.
type MockTransport struct {
	mu    sync.Mutex
	stubs []stub
	calls []Call
}

// Install swaps the shared client's transport for a fresh MockTransport
// and restores the real one when the test finishes.
func Install(t *testing.T) *MockTransport {
	t.Helper()
	mt := &MockTransport{}
	tavolohttp.DefaultClient.Transport = mt
	t.Cleanup(tavolohttp.ResetTransport)
	return mt
}

// Stub registers a synthetic JSON response for requests whose URL
// contains match. Later stubs win over earlier ones.
func (mt *MockTransport) Stub(method, match string, status int, body string) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, stub{method: method, match: match, status: status, body: body})
}

// StubDelayed is Stub with an artificial response delay, for tests that
// race a slow response against a fast one.
func (mt *MockTransport) StubDelayed(method, match string, status int, body string, delay time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, stub{method: method, match: match, status: status, body: body, delay: delay})
}

// StubError makes matching requests fail at the transport level,
// simulating an unreachable backend.
func (mt *MockTransport) StubError(method, match string, err error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, stub{method: method, match: match, err: err})
}

// RoundTrip records the request and answers from the stub list.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	mt.mu.Lock()
	mt.calls = append(mt.calls, Call{Method: req.Method, URL: req.URL.String(), Body: body})
	var matched *stub
	for i := len(mt.stubs) - 1; i >= 0; i-- {
		s := mt.stubs[i]
		if s.method == req.Method && strings.Contains(req.URL.String(), s.match) {
			matched = &s
			break
		}
	}
	mt.mu.Unlock()

	if matched == nil {
		return jsonResponse(req, http.StatusNotFound, `{"error":"no stub configured"}`), nil
	}
	if matched.delay > 0 {
		select {
		case <-time.After(matched.delay):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
	if matched.err != nil {
		return nil, matched.err
	}
	return jsonResponse(req, matched.status, matched.body), nil
}

// Calls returns every intercepted request in order.
func (mt *MockTransport) Calls() []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	out := make([]Call, len(mt.calls))
	copy(out, mt.calls)
	return out
}

// CallCount reports how many intercepted requests matched method and a
// URL substring.
func (mt *MockTransport) CallCount(method, match string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	n := 0
	for _, c := range mt.calls {
		if c.Method == method && strings.Contains(c.URL, match) {
			n++
		}
	}
	return n
}

func jsonResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}
}
