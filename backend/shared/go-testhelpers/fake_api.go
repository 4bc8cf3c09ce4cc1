package testhelpers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is one call captured by a FakeAPI.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Form          url.Values
	Body          []byte
	Authorization string
	ContentType   string
}

// DecodeJSON unmarshals the recorded body into out.
func (r RecordedRequest) DecodeJSON(t *testing.T, out any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, out); err != nil {
		t.Fatalf("decode recorded body %q: %v", string(r.Body), err)
	}
}

// QueryJSON unmarshals a JSON-encoded query parameter such as "filter" or
// "where" into out.
func (r RecordedRequest) QueryJSON(t *testing.T, key string, out any) {
	t.Helper()
	raw := r.Query.Get(key)
	if raw == "" {
		t.Fatalf("query parameter %q missing in %s %s", key, r.Method, r.Path)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		t.Fatalf("decode query %q=%q: %v", key, raw, err)
	}
}

// FakeAPI is an httptest server that records every request and answers with
// handlers registered per "METHOD /path". Unknown routes get a LoopBack-style
// 404 body. It stands in for both the coins-control backend and the lock
// vendor in unit tests.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	handlers map[string]http.HandlerFunc
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	f := &FakeAPI{handlers: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the server base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

// Handle registers h for method and path.
func (f *FakeAPI) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

// HandleJSON answers method and path with a fixed JSON body.
func (f *FakeAPI) HandleJSON(method, path string, status int, body any) {
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// HandleLoopBackError answers with the backend's error envelope.
func (f *FakeAPI) HandleLoopBackError(method, path string, status int, message string) {
	f.HandleJSON(method, path, status, map[string]any{
		"error": map[string]any{
			"statusCode": status,
			"name":       http.StatusText(status),
			"message":    message,
		},
	})
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls returns the requests received for method and path.
func (f *FakeAPI) Calls(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Body:          body,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	}
	if strings.HasPrefix(rec.ContentType, "application/x-www-form-urlencoded") {
		rec.Form, _ = url.ParseQuery(string(body))
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	h, ok := f.handlers[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"statusCode":404,"name":"NotFoundError","message":"Endpoint not found"}}`)
		return
	}
	h(w, r)
}
