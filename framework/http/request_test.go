package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	gohttp "github.com/km-arc/go-entry/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newGetRequest(t *testing.T, rawQuery string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return gohttp.NewRequest(req)
}

func withRouteParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ── Query ────────────────────────────────────────────────────────────────────

func TestRequest_Query(t *testing.T) {
	req := newGetRequest(t, "capability=tickable&instance=app.Player")

	if got := req.Query("capability"); got != "tickable" {
		t.Errorf("Query capability: got %q want %q", got, "tickable")
	}
	if got := req.Query("instance"); got != "app.Player" {
		t.Errorf("Query instance: got %q want %q", got, "app.Player")
	}
}

func TestRequest_Query_Fallback(t *testing.T) {
	req := newGetRequest(t, "")
	if got := req.Query("missing", "1"); got != "1" {
		t.Errorf("Query fallback: got %q want %q", got, "1")
	}
}

func TestRequest_Has(t *testing.T) {
	req := newGetRequest(t, "name=Alice&empty=")

	if !req.Has("name") {
		t.Error("Has('name') should be true")
	}
	if req.Has("empty") {
		t.Error("Has('empty') should be false for blank value")
	}
	if req.Has("missing") {
		t.Error("Has('missing') should be false")
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRequest_RouteParam(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"plain", "app.Player", "app.Player", true},
		{"escaped pointer", "%2Aapp.Player", "*app.Player", true},
		{"malformed", "%zz", "%zz", false},
		{"missing", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.raw != "" {
				r = withRouteParam(r, "type", tt.raw)
			}
			got, ok := gohttp.NewRequest(r).RouteParam("type")
			if got != tt.want || ok != tt.valid {
				t.Errorf("RouteParam: got (%q, %v) want (%q, %v)", got, ok, tt.want, tt.valid)
			}
		})
	}
}

// ── Method / Path ────────────────────────────────────────────────────────────

func TestRequest_MethodAndPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodHead, "/instances", nil)
	req := gohttp.NewRequest(r)

	if req.Method() != http.MethodHead {
		t.Errorf("Method: got %q want HEAD", req.Method())
	}
	if req.Path() != "/instances" {
		t.Errorf("Path: got %q want /instances", req.Path())
	}
}
