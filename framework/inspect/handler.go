package inspect

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	gohttp "github.com/km-arc/go-entry/framework/http"
	"github.com/km-arc/go-entry/framework/routing"
)

// HandlerOption configures NewHandler.
type HandlerOption func(*handlerInfo)

type handlerInfo struct {
	version string
	env     string
}

// WithBuildInfo reports the application version and environment on
// /healthz.
func WithBuildInfo(version, env string) HandlerOption {
	return func(h *handlerInfo) {
		h.version = version
		h.env = env
	}
}

// NewHandler serves p's latest snapshot:
//
//	GET  /healthz                    → 200 {"status": "ok", "ready": bool, "frame": n}
//	HEAD /healthz                    → 200 once a snapshot exists, 503 before
//	GET  /snapshot                   → whole snapshot
//	GET  /instances[?capability=tag] → instance views, optionally filtered
//	GET  /instances/{type}           → one instance view, 404 when untracked
//	GET  /keys[?instance=type]       → key views, optionally filtered
//
// Every GET route except /healthz answers 503 until the first snapshot
// exists. Responses are never cacheable.
func NewHandler(p *Publisher, log zerolog.Logger, opts ...HandlerOption) http.Handler {
	var info handlerInfo
	for _, opt := range opts {
		opt(&info)
	}

	r := routing.New(log)
	r.Middleware(middleware.NoCache)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		in := gohttp.NewRequest(req)
		gohttp.NewResponse(w).NotFound("no route for " + in.Method() + " " + in.Path())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		in := gohttp.NewRequest(req)
		gohttp.NewResponse(w).MethodNotAllowed(in.Method() + " not allowed on " + in.Path())
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		var frame uint64
		s, ready := p.Snapshot()
		if ready {
			frame = s.Frame
		}
		body := map[string]any{
			"status": "ok",
			"ready":  ready,
			"frame":  frame,
		}
		if info.version != "" {
			body["version"] = info.version
		}
		if info.env != "" {
			body["env"] = info.env
		}
		gohttp.NewResponse(w).JSON(http.StatusOK, body)
	})
	r.Head("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if _, ready := p.Snapshot(); !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/snapshot", serve(p, func(res *gohttp.Response, _ *gohttp.Request, s *Snapshot) {
		res.Success(s)
	}))

	r.Get("/instances", serve(p, func(res *gohttp.Response, req *gohttp.Request, s *Snapshot) {
		if !req.Has("capability") {
			res.Success(s.Instances)
			return
		}
		res.Success(s.WithCapability(req.Query("capability")))
	}))

	r.Get("/instances/{type}", serve(p, func(res *gohttp.Response, req *gohttp.Request, s *Snapshot) {
		name, ok := req.RouteParam("type")
		if !ok {
			res.Error(http.StatusBadRequest, "malformed type name")
			return
		}
		view, ok := s.Instance(name)
		if !ok {
			res.NotFound("no tracked instance of type " + name)
			return
		}
		res.Success(view)
	}))

	r.Get("/keys", serve(p, func(res *gohttp.Response, req *gohttp.Request, s *Snapshot) {
		if !req.Has("instance") {
			res.Success(s.Keys)
			return
		}
		res.Success(s.KeysFor(req.Query("instance")))
	}))

	return r
}

// serve loads the snapshot once per request and answers 503 without one.
func serve(p *Publisher, fn func(*gohttp.Response, *gohttp.Request, *Snapshot)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := gohttp.NewResponse(w)
		s, ok := p.Snapshot()
		if !ok {
			res.Unavailable("no snapshot published yet")
			return
		}
		fn(res, gohttp.NewRequest(r), s)
	}
}
