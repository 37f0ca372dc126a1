package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Request wraps *http.Request with read-only input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Has returns true if the query key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Query(key) != ""
}

// RouteParam returns a URL route parameter (chi), percent-decoded. A
// malformed escape returns the raw segment and false.
func (req *Request) RouteParam(key string) (string, bool) {
	raw := chi.URLParam(req.raw, key)
	v, err := url.PathUnescape(raw)
	if err != nil {
		return raw, false
	}
	return v, true
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }
